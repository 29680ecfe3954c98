// Package conversation implements the bot's guided data-entry flow: a strictly
// linear step machine per chat, plus the keyed store that owns the live
// sessions.
package conversation

import (
	"strconv"
	"strings"
	"time"
)

// Step identifies which field a conversation is collecting next.
type Step string

const (
	StepCarNumber     Step = "CAR_NUMBER"
	StepViolationType Step = "VIOLATION_TYPE"
	StepAmount        Step = "AMOUNT"
	StepLocation      Step = "LOCATION"
)

// Prompts and re-prompts per step. Validation failure re-asks the same
// question; previously collected fields are never touched.
const (
	PromptCarNumber     = "Enter the car number:"
	PromptViolationType = "Enter the violation type (e.g. speeding, red light):"
	PromptAmount        = "Enter the fine amount (a number):"
	PromptLocation      = "Enter the violation location:"

	RepromptCarNumber     = "The car number cannot be empty. Please enter the car number."
	RepromptViolationType = "The violation type cannot be empty. Please enter the violation type."
	RepromptAmount        = "The amount must be a number greater than zero. Try again."
	RepromptLocation      = "The location cannot be empty. Please enter the violation location."
)

// Conversation is one chat's ephemeral data-entry session. It lives only in
// the Store and is lost on process restart.
type Conversation struct {
	Step          Step
	CarNumber     string
	ViolationType string
	Amount        float64
	Location      string
	StartedAt     time.Time
	UpdatedAt     time.Time
}

// New starts a conversation at the first step.
func New(now time.Time) *Conversation {
	return &Conversation{
		Step:      StepCarNumber,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Advance feeds one inbound message into the conversation. It returns the
// reply to send and whether all fields have been collected. On a validation
// failure the step does not change and the reply re-asks the same question.
func (c *Conversation) Advance(text string, now time.Time) (reply string, complete bool) {
	text = strings.TrimSpace(text)
	c.UpdatedAt = now

	switch c.Step {
	case StepCarNumber:
		if text == "" {
			return RepromptCarNumber, false
		}
		c.CarNumber = text
		c.Step = StepViolationType
		return PromptViolationType, false

	case StepViolationType:
		if text == "" {
			return RepromptViolationType, false
		}
		c.ViolationType = text
		c.Step = StepAmount
		return PromptAmount, false

	case StepAmount:
		amount, err := strconv.ParseFloat(text, 64)
		if err != nil || !(amount > 0) {
			return RepromptAmount, false
		}
		c.Amount = amount
		c.Step = StepLocation
		return PromptLocation, false

	case StepLocation:
		if text == "" {
			return RepromptLocation, false
		}
		c.Location = text
		return "", true
	}

	// Unreachable for sessions created through New; treat as complete so the
	// dispatcher discards the broken entry.
	return "", true
}
