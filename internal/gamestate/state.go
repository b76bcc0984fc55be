// Package gamestate holds the chapter simulation state, split in two: a
// strict half with a closed schema that win conditions read, validated on
// every change, and a vibe half for free-form narrative color that is never
// gated on.
package gamestate

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Clock is the relay system clock. Time uses "HH:MM".
type Clock struct {
	Timezone string `json:"timezone"`
	Time     string `json:"time"`
}

// Shifted returns the clock time moved by a whole number of hours, wrapping
// at 24 and preserving minutes. An unparseable current time counts as 00:00.
func (c Clock) Shifted(offsetHours int) string {
	hh, mm := 0, 0
	if len(c.Time) == 5 && c.Time[2] == ':' {
		h, errH := strconv.Atoi(c.Time[:2])
		m, errM := strconv.Atoi(c.Time[3:])
		if errH == nil && errM == nil {
			hh, mm = h, m
		}
	}
	h := ((hh+offsetHours)%24 + 24) % 24
	return fmt.Sprintf("%02d:%02d", h, mm)
}

// Email is a validated outbound mail record. Only the fields win conditions
// read live here; the narrative copy goes to the vibe side.
type Email struct {
	Recipient string `json:"recipient"`
	SentAt    string `json:"sent_at"`
}

// StrictState is the authoritative half. Closed schema, no dynamic keys;
// every change is validated field by field before it lands.
type StrictState struct {
	Clock  Clock   `json:"clock"`
	Emails []Email `json:"emails"`
}

// VibeEmail carries the narrative copy of an outbound mail.
type VibeEmail struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	SentAt    string `json:"sent_at"`
}

// VibeState is the free-form half: realism only, never read by win
// conditions.
type VibeState struct {
	SystemConfig map[string]string `json:"system_config"`
	Emails       []VibeEmail       `json:"emails"`
	Notes        []string          `json:"notes"`
}

// GameState is the full simulation state for one chapter session.
type GameState struct {
	Strict StrictState `json:"strict"`
	Vibe   VibeState   `json:"vibe"`
}

// New returns the chapter start state: clock stuck at midnight UTC, nothing
// sent, nothing noted.
func New() GameState {
	return GameState{
		Strict: StrictState{
			Clock:  Clock{Timezone: "UTC", Time: "00:00"},
			Emails: []Email{},
		},
		Vibe: VibeState{
			SystemConfig: map[string]string{},
			Emails:       []VibeEmail{},
			Notes:        []string{},
		},
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s GameState) Clone() GameState {
	out := s
	out.Strict.Emails = append([]Email(nil), s.Strict.Emails...)
	out.Vibe.Emails = append([]VibeEmail(nil), s.Vibe.Emails...)
	out.Vibe.Notes = append([]string(nil), s.Vibe.Notes...)
	if s.Vibe.SystemConfig != nil {
		out.Vibe.SystemConfig = make(map[string]string, len(s.Vibe.SystemConfig))
		for k, v := range s.Vibe.SystemConfig {
			out.Vibe.SystemConfig[k] = v
		}
	}
	return out
}

// ToJSON renders the state as indented JSON for debug logging and
// inspection.
func (s GameState) ToJSON() (string, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal game state: %w", err)
	}
	return string(b), nil
}
