package zerohour

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nirradi/sparrownet/internal/gamestate"
	"github.com/nirradi/sparrownet/internal/shell"
)

// winBanner is printed once, the first time the chapter goal holds.
const winBanner = "WIN CONDITION MET - chapter complete.\n" +
	"The relay clock is moving again and the ops desk has your escalation on file.\n" +
	"Stay as long as you like; the night shift is quiet now."

// console owns the chapter's game state and exposes it through the root
// command table. Handlers run on engine goroutines, so every state access
// is serialized here.
type console struct {
	mu    sync.Mutex
	state gamestate.GameState
	won   bool
	log   *zap.Logger
}

func newConsole(data Data, log *zap.Logger) *console {
	res := gamestate.Apply(gamestate.New(), gamestate.Patch{
		Vibe: gamestate.VibePatch{SystemConfig: data.SystemConfig},
	})
	return &console{state: res.State, log: log}
}

// mutate runs one state change through the full cycle under the lock:
// build the patch against the current state, apply, adopt on success and
// check the win condition. Transcript reporting happens after the lock is
// released.
func (c *console) mutate(caps shell.Caps, build func(gamestate.GameState) (gamestate.Patch, string)) {
	c.mu.Lock()
	patch, okText := build(c.state)
	res := gamestate.Apply(c.state, patch)
	wonNow := false
	if res.OK {
		c.state = res.State
		if !c.won && gamestate.CheckWin(c.state) {
			c.won = true
			wonNow = true
		}
	}
	snapshot := c.state
	c.mu.Unlock()

	for _, w := range res.Warnings {
		c.log.Warn("vibe patch warning", zap.String("warning", w))
	}

	if !res.OK {
		lines := make([]string, len(res.StrictErrors))
		for i, e := range res.StrictErrors {
			lines[i] = "rejected: " + e.String()
		}
		caps.SendToOutput(strings.Join(lines, "\n"), true)
		return
	}

	if js, err := snapshot.ToJSON(); err == nil {
		c.log.Debug("game state", zap.String("state", js))
	}

	if wonNow {
		caps.SendToOutput(okText+"\n\n"+winBanner, true)
		return
	}
	caps.SendToOutput(okText, true)
}

// clock with no arguments shows the strict clock. "clock set HH:MM" sets it
// absolutely; "clock shift <hours>" moves it relative to now, minutes kept.
func (c *console) clock(caps shell.Caps, input string) {
	args := strings.Fields(input)[1:]

	switch {
	case len(args) == 0:
		c.mu.Lock()
		clk := c.state.Strict.Clock
		c.mu.Unlock()
		caps.SendToOutput(fmt.Sprintf("system clock: %s (%s)", clk.Time, clk.Timezone), true)

	case args[0] == "set" && len(args) == 2:
		c.mutate(caps, func(gamestate.GameState) (gamestate.Patch, string) {
			return gamestate.Patch{
				Strict: gamestate.StrictPatch{Clock: &gamestate.ClockPatch{Time: &args[1]}},
			}, "system clock set to " + args[1]
		})

	case args[0] == "shift" && len(args) == 2:
		offset, err := strconv.Atoi(args[1])
		if err != nil {
			caps.SendToOutput("usage: clock shift <hours>, e.g. clock shift +5", true)
			return
		}
		c.mutate(caps, func(s gamestate.GameState) (gamestate.Patch, string) {
			shifted := s.Strict.Clock.Shifted(offset)
			return gamestate.Patch{
				Strict: gamestate.StrictPatch{Clock: &gamestate.ClockPatch{Time: &shifted}},
			}, "system clock set to " + shifted
		})

	default:
		caps.SendToOutput("usage: clock | clock set HH:MM | clock shift <hours>", true)
	}
}

// send mails a recipient. The strict record keeps only recipient and send
// time; the body is narrative and goes to the vibe side.
func (c *console) send(caps shell.Caps, input string) {
	parts := strings.SplitN(input, " ", 3)
	if len(parts) < 2 || parts[1] == "" {
		caps.SendToOutput("usage: send <recipient> <body>", true)
		return
	}
	recipient := parts[1]
	body := ""
	if len(parts) == 3 {
		body = parts[2]
	}

	c.mutate(caps, func(s gamestate.GameState) (gamestate.Patch, string) {
		sentAt := s.Strict.Clock.Time
		strictMail := append(append([]gamestate.Email(nil), s.Strict.Emails...),
			gamestate.Email{Recipient: recipient, SentAt: sentAt})
		vibeMail := append(append([]gamestate.VibeEmail(nil), s.Vibe.Emails...),
			gamestate.VibeEmail{Recipient: recipient, Body: body, SentAt: sentAt})
		return gamestate.Patch{
			Strict: gamestate.StrictPatch{Emails: strictMail},
			Vibe:   gamestate.VibePatch{Emails: vibeMail},
		}, fmt.Sprintf("mail queued to %s at %s", recipient, sentAt)
	})
}

// sysconfig renders the relay's system table, keys sorted.
func (c *console) sysconfig(caps shell.Caps, _ string) {
	c.mu.Lock()
	cfg := c.state.Vibe.SystemConfig
	c.mu.Unlock()

	if len(cfg) == 0 {
		caps.SendToOutput("relay system configuration: empty", true)
		return
	}

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	lines = append(lines, "relay system configuration:")
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %-16s %s", k, cfg[k]))
	}
	caps.SendToOutput(strings.Join(lines, "\n"), true)
}

// note with text keeps a shift note; a bare note lists what has been kept.
func (c *console) note(caps shell.Caps, input string) {
	text := strings.TrimSpace(strings.TrimPrefix(input, "note"))

	if text == "" {
		c.mu.Lock()
		notes := c.state.Vibe.Notes
		c.mu.Unlock()

		if len(notes) == 0 {
			caps.SendToOutput("no shift notes yet", true)
			return
		}
		lines := make([]string, len(notes))
		for i, n := range notes {
			lines[i] = fmt.Sprintf("%2d. %s", i+1, n)
		}
		caps.SendToOutput(strings.Join(lines, "\n"), true)
		return
	}

	c.mutate(caps, func(s gamestate.GameState) (gamestate.Patch, string) {
		notes := append(append([]string(nil), s.Vibe.Notes...), text)
		return gamestate.Patch{Vibe: gamestate.VibePatch{Notes: notes}}, "noted"
	})
}

// status summarizes the shift.
func (c *console) status(caps shell.Caps, _ string) {
	c.mu.Lock()
	s := c.state
	won := c.won
	c.mu.Unlock()

	progress := "in progress"
	if won {
		progress = "complete"
	}
	lines := []string{
		fmt.Sprintf("clock  %s (%s)", s.Strict.Clock.Time, s.Strict.Clock.Timezone),
		fmt.Sprintf("mail   %d sent", len(s.Strict.Emails)),
		fmt.Sprintf("notes  %d kept", len(s.Vibe.Notes)),
		"shift  " + progress,
	}
	caps.SendToOutput(strings.Join(lines, "\n"), true)
}
