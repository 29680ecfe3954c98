// Package dispatcher routes inbound chat events: commands first, then the
// active conversation, then silence. It owns the terminal resolve step that
// turns a completed conversation into a violation row.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"trafficdesk/internal/bot/conversation"
	"trafficdesk/internal/platform/metrics"
	"trafficdesk/internal/violation/models"
	"trafficdesk/internal/violation/service"
	dErrors "trafficdesk/pkg/domain-errors"
)

// Recognized command names, as classified by the transport (without prefix).
const (
	CmdStart = "start"
	CmdAdd   = "add"
)

// User-visible messages outside the step prompts.
const (
	MsgWelcome = "Welcome to the traffic violation management system.\n\n" +
		"Send /add to record a violation."
	MsgOwnerNotFound = "No car with that number was found in the system."
	MsgFailure       = "Something went wrong while processing your request. Send /add to start over."
)

// Sender delivers outbound text to a chat. The Telegram adapter implements it.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Service is the slice of the violation service the dispatcher invokes when a
// conversation completes.
type Service interface {
	GetOwnerByCarNumber(ctx context.Context, carNumber string) (*models.Owner, error)
	CreateViolation(ctx context.Context, in service.CreateViolationInput) (*models.Violation, error)
}

// Dispatcher connects the transport to the conversation store and the
// violation service.
type Dispatcher struct {
	conversations *conversation.Store
	violations    Service
	sender        Sender
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// New constructs a Dispatcher.
func New(conversations *conversation.Store, violations Service, sender Sender, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		conversations: conversations,
		violations:    violations,
		sender:        sender,
		logger:        logger,
		metrics:       m,
	}
}

// HandleCommand processes a recognized command. Commands take priority over
// any active conversation: add re-initializes the flow, start only greets,
// unknown commands are ignored.
func (d *Dispatcher) HandleCommand(ctx context.Context, chatID int64, command string) {
	defer d.recoverFailure(ctx, chatID)

	switch command {
	case CmdStart:
		d.send(ctx, chatID, MsgWelcome)
	case CmdAdd:
		d.conversations.Begin(chatID, time.Now())
		if d.metrics != nil {
			d.metrics.ConversationsStarted.Inc()
		}
		d.send(ctx, chatID, conversation.PromptCarNumber)
	}
}

// HandleMessage feeds free text into the chat's active conversation. Text with
// no active conversation is a silent no-op so stray chatter produces no output.
func (d *Dispatcher) HandleMessage(ctx context.Context, chatID int64, text string) {
	defer d.recoverFailure(ctx, chatID)

	d.conversations.Execute(chatID, func(c *conversation.Conversation) bool {
		reply, complete := c.Advance(text, time.Now())
		if !complete {
			d.send(ctx, chatID, reply)
			return true
		}

		// Terminal resolve. Whatever happens here the session is discarded:
		// failures are not retried field by field, the flow restarts via /add.
		msg, created := d.resolve(ctx, c)
		d.send(ctx, chatID, msg)
		if d.metrics != nil {
			if created {
				d.metrics.ConversationsCompleted.Inc()
			} else {
				d.metrics.ConversationsAbandoned.Inc()
			}
		}
		return false
	})
}

// resolve looks up the owner and persists the violation collected by c,
// returning the message to send and whether a row was created.
func (d *Dispatcher) resolve(ctx context.Context, c *conversation.Conversation) (string, bool) {
	owner, err := d.violations.GetOwnerByCarNumber(ctx, c.CarNumber)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return MsgOwnerNotFound, false
		}
		d.logger.ErrorContext(ctx, "owner lookup failed", "car_number", c.CarNumber, "error", err.Error())
		return MsgFailure, false
	}

	v, err := d.violations.CreateViolation(ctx, service.CreateViolationInput{
		OwnerID:       owner.ID,
		ViolationType: c.ViolationType,
		Amount:        c.Amount,
		Location:      c.Location,
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "violation creation failed", "owner_id", owner.ID, "error", err.Error())
		return MsgFailure, false
	}

	confirmation := fmt.Sprintf(
		"Violation recorded successfully.\n\n"+
			"Owner: %s\n"+
			"Car number: %s\n"+
			"Violation type: %s\n"+
			"Amount: %s\n"+
			"Location: %s\n"+
			"Status: %s\n"+
			"Violation ID: %s",
		owner.FullName,
		owner.CarNumber,
		v.ViolationType,
		strconv.FormatFloat(v.Amount, 'f', -1, 64),
		v.Location,
		v.Status,
		v.ID,
	)
	return confirmation, true
}

// recoverFailure absorbs panics escaping a handler. The chat gets the generic
// failure message and any in-flight conversation is discarded, so the user
// restarts cleanly via /add instead of feeding answers into a corrupted flow.
func (d *Dispatcher) recoverFailure(ctx context.Context, chatID int64) {
	rec := recover()
	if rec == nil {
		return
	}
	d.logger.ErrorContext(ctx, "panic while handling update", "chat_id", chatID, "panic", fmt.Sprint(rec))
	if d.conversations.Execute(chatID, func(*conversation.Conversation) bool { return false }) {
		if d.metrics != nil {
			d.metrics.ConversationsAbandoned.Inc()
		}
	}
	d.send(ctx, chatID, MsgFailure)
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) {
	if err := d.sender.SendMessage(ctx, chatID, text); err != nil {
		d.logger.ErrorContext(ctx, "failed to send message", "chat_id", chatID, "error", err.Error())
	}
}
