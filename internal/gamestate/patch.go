package gamestate

import (
	"fmt"
	"strconv"
)

// Patch describes desired state, not instructions: apply it and the state
// looks like the patch says. Strict fields are validated; a rejected field
// is simply not applied and never blocks the other fields. Vibe fields are
// applied permissively and at worst collect warnings.
type Patch struct {
	Strict StrictPatch
	Vibe   VibePatch
}

// StrictPatch is the validated part of a patch. A nil Clock leaves the
// clock alone; a nil Emails slice leaves the sent list alone, while a
// non-nil one replaces it wholesale.
type StrictPatch struct {
	Clock  *ClockPatch
	Emails []Email
}

// ClockPatch sets clock fields. Nil fields keep their current value.
type ClockPatch struct {
	Timezone *string
	Time     *string
}

// VibePatch is the permissive part of a patch. Nil collections are left
// alone; non-nil ones replace the current value wholesale.
type VibePatch struct {
	SystemConfig map[string]string
	Emails       []VibeEmail
	Notes        []string
}

// ValidationError names one rejected strict field.
type ValidationError struct {
	Field  string
	Reason string
	Value  any
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (value=%v)", e.Field, e.Reason, e.Value)
}

// Result is the outcome of one Apply. State always holds the post-apply
// state: the input with every accepted field applied, rejected strict
// fields left at their previous values. OK is true only when nothing
// strict was rejected.
type Result struct {
	OK           bool
	State        GameState
	StrictErrors []ValidationError
	Warnings     []string
}

// Apply validates and applies patch to a copy of state. The input state is
// never touched; callers adopt Result.State when they accept the outcome.
func Apply(state GameState, patch Patch) Result {
	next := state.Clone()

	errs := applyStrict(&next.Strict, patch.Strict)
	warnings := applyVibe(&next.Vibe, patch.Vibe)

	return Result{
		OK:           len(errs) == 0,
		State:        next,
		StrictErrors: errs,
		Warnings:     warnings,
	}
}

func applyStrict(strict *StrictState, patch StrictPatch) []ValidationError {
	var errs []ValidationError

	if patch.Clock != nil {
		if patch.Clock.Time != nil {
			if reason := validateClockTime(*patch.Clock.Time); reason != "" {
				errs = append(errs, ValidationError{
					Field:  "clock",
					Reason: reason,
					Value:  *patch.Clock.Time,
				})
			} else {
				strict.Clock.Time = *patch.Clock.Time
			}
		}
		if patch.Clock.Timezone != nil {
			strict.Clock.Timezone = *patch.Clock.Timezone
		}
	}

	if patch.Emails != nil {
		emailErrs := validateEmails(patch.Emails)
		if len(emailErrs) > 0 {
			errs = append(errs, emailErrs...)
		} else {
			strict.Emails = append([]Email(nil), patch.Emails...)
		}
	}

	return errs
}

// validateClockTime checks the "HH:MM" shape. Empty reason means valid.
func validateClockTime(t string) string {
	if len(t) != 5 || t[2] != ':' {
		return "time must be in HH:MM format"
	}
	h, errH := strconv.Atoi(t[:2])
	m, errM := strconv.Atoi(t[3:])
	if errH != nil || errM != nil {
		return "time components must be numeric"
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "time out of bounds (HH must be 00-23, MM must be 00-59)"
	}
	return ""
}

func validateEmails(emails []Email) []ValidationError {
	var errs []ValidationError
	for i, email := range emails {
		switch {
		case email.Recipient == "":
			errs = append(errs, ValidationError{
				Field:  fmt.Sprintf("emails[%d]", i),
				Reason: "recipient is required",
				Value:  email,
			})
		case email.SentAt == "":
			errs = append(errs, ValidationError{
				Field:  fmt.Sprintf("emails[%d]", i),
				Reason: "sent_at is required",
				Value:  email,
			})
		}
	}
	return errs
}

func applyVibe(vibe *VibeState, patch VibePatch) []string {
	var warnings []string

	if patch.SystemConfig != nil {
		cfg := make(map[string]string, len(patch.SystemConfig))
		for k, v := range patch.SystemConfig {
			cfg[k] = v
		}
		vibe.SystemConfig = cfg
	}

	if patch.Emails != nil {
		for i, email := range patch.Emails {
			if email.Recipient == "" {
				warnings = append(warnings, fmt.Sprintf("vibe.emails[%d] has no recipient", i))
			}
		}
		vibe.Emails = append([]VibeEmail(nil), patch.Emails...)
	}

	if patch.Notes != nil {
		for i, note := range patch.Notes {
			if note == "" {
				warnings = append(warnings, fmt.Sprintf("vibe.notes[%d] is empty", i))
			}
		}
		vibe.Notes = append([]string(nil), patch.Notes...)
	}

	return warnings
}
