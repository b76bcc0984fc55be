package zerohour

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/nirradi/sparrownet/internal/engine"
	"github.com/nirradi/sparrownet/internal/shell"
)

func testConsole() *console {
	return newConsole(Data{
		SystemConfig: map[string]string{
			"ntp_daemon":   "stopped",
			"clock_source": "manual",
		},
	}, zap.NewNop())
}

func TestConsole_ClockShow(t *testing.T) {
	c := testConsole()
	caps := &fakeCaps{}

	c.clock(caps, "clock")

	assert.Equal(t, "system clock: 00:00 (UTC)", caps.lastOutput())
}

func TestConsole_ClockSet(t *testing.T) {
	t.Run("valid time", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.clock(caps, "clock set 09:30")

		assert.Equal(t, "system clock set to 09:30", caps.lastOutput())
		assert.Equal(t, "09:30", c.state.Strict.Clock.Time)
	})

	t.Run("rejected time reports and leaves state alone", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.clock(caps, "clock set 9am")

		assert.Equal(t, "rejected: clock: time must be in HH:MM format (value=9am)", caps.lastOutput())
		assert.Equal(t, "00:00", c.state.Strict.Clock.Time)
	})

	t.Run("garbage arguments show usage", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.clock(caps, "clock wind forward")

		assert.Contains(t, caps.lastOutput(), "usage: clock")
	})
}

func TestConsole_ClockShift(t *testing.T) {
	cases := []struct {
		name  string
		setup string
		input string
		want  string
	}{
		{"forward from midnight", "", "clock shift +5", "05:00"},
		{"backward wraps", "", "clock shift -1", "23:00"},
		{"preserves minutes", "clock set 10:45", "clock shift 3", "13:45"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testConsole()
			caps := &fakeCaps{}
			if tc.setup != "" {
				c.clock(caps, tc.setup)
			}

			c.clock(caps, tc.input)

			assert.Equal(t, "system clock set to "+tc.want, caps.lastOutput())
			assert.Equal(t, tc.want, c.state.Strict.Clock.Time)
		})
	}

	t.Run("non-numeric offset shows usage", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.clock(caps, "clock shift banana")

		assert.Contains(t, caps.lastOutput(), "usage: clock shift")
		assert.Equal(t, "00:00", c.state.Strict.Clock.Time)
	})
}

func TestConsole_Send(t *testing.T) {
	t.Run("stamps mail with the current clock", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.send(caps, "send noc@corp the relay is odd tonight")

		assert.Equal(t, "mail queued to noc@corp at 00:00", caps.lastOutput())
		require.Len(t, c.state.Strict.Emails, 1)
		assert.Equal(t, "noc@corp", c.state.Strict.Emails[0].Recipient)
		assert.Equal(t, "00:00", c.state.Strict.Emails[0].SentAt)
		require.Len(t, c.state.Vibe.Emails, 1)
		assert.Equal(t, "the relay is odd tonight", c.state.Vibe.Emails[0].Body)
	})

	t.Run("missing recipient shows usage", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.send(caps, "send")

		assert.Equal(t, "usage: send <recipient> <body>", caps.lastOutput())
		assert.Empty(t, c.state.Strict.Emails)
	})

	t.Run("body is optional", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.send(caps, "send ops@corp")

		require.Len(t, c.state.Strict.Emails, 1)
		assert.Equal(t, "", c.state.Vibe.Emails[0].Body)
	})
}

func TestConsole_WinCondition(t *testing.T) {
	t.Run("mail sent at midnight does not win", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.send(caps, "send ops@corp help")

		assert.NotContains(t, caps.lastOutput(), "WIN CONDITION MET")
		assert.False(t, c.won)
	})

	t.Run("clock then ops mail wins once", func(t *testing.T) {
		c := testConsole()
		caps := &fakeCaps{}

		c.clock(caps, "clock shift +5")
		assert.NotContains(t, caps.lastOutput(), "WIN CONDITION MET", "clock alone is not enough")

		c.send(caps, "send ops@corp clock is moving again")
		assert.Contains(t, caps.lastOutput(), "WIN CONDITION MET - chapter complete.")
		assert.True(t, c.won)

		c.send(caps, "send ops@corp me again")
		assert.NotContains(t, caps.lastOutput(), "WIN CONDITION MET", "the banner prints only once")
	})
}

func TestConsole_Sysconfig(t *testing.T) {
	c := testConsole()
	caps := &fakeCaps{}

	c.sysconfig(caps, "sysconfig")

	lines := strings.Split(caps.lastOutput(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "relay system configuration:", lines[0])
	assert.Contains(t, lines[1], "clock_source", "keys come out sorted")
	assert.Contains(t, lines[2], "ntp_daemon")
}

func TestConsole_Note(t *testing.T) {
	c := testConsole()
	caps := &fakeCaps{}

	c.note(caps, "note")
	assert.Equal(t, "no shift notes yet", caps.lastOutput())

	c.note(caps, "note breaker room key under the mat")
	assert.Equal(t, "noted", caps.lastOutput())

	c.note(caps, "note dayshift owes me a coffee")
	c.note(caps, "note")
	listing := caps.lastOutput()
	assert.Contains(t, listing, " 1. breaker room key under the mat")
	assert.Contains(t, listing, " 2. dayshift owes me a coffee")
}

func TestConsole_Status(t *testing.T) {
	c := testConsole()
	caps := &fakeCaps{}

	c.status(caps, "status")
	status := caps.lastOutput()
	assert.Contains(t, status, "clock  00:00 (UTC)")
	assert.Contains(t, status, "mail   0 sent")
	assert.Contains(t, status, "shift  in progress")

	c.clock(caps, "clock shift +5")
	c.send(caps, "send ops@corp moving again")
	c.status(caps, "status")
	status = caps.lastOutput()
	assert.Contains(t, status, "clock  05:00 (UTC)")
	assert.Contains(t, status, "mail   1 sent")
	assert.Contains(t, status, "shift  complete")
}

// The chapter played end to end through a real engine: read the mail, fix
// the clock, tell ops, win.
func TestZeroHour_PlayThrough(t *testing.T) {
	defer goleak.VerifyNone(t)

	data := MustDefault()
	ch := New(data, zap.NewNop())

	store := shell.NewStore()
	e := engine.New(store, zap.NewNop())
	e.Start(ch.Commands, ch.Prompt, ch.Banner)

	run := func(line string) shell.State {
		e.Run(line)
		e.Wait()
		return store.Snapshot()
	}

	s := run("mail")
	assert.Equal(t, "mail> ", s.Prompt)

	run("next")
	run("next")
	s = run("quit")
	assert.Equal(t, ch.Prompt, s.Prompt)

	s = run("clock shift +5")
	assert.Equal(t, "system clock set to 05:00", s.Output[len(s.Output)-1])

	s = run("send ops@corp the clock is moving again")
	assert.Contains(t, s.Output[len(s.Output)-1], "WIN CONDITION MET - chapter complete.")
	assert.False(t, s.InputDisabled, "the session keeps running after the win")

	s = run("status")
	assert.Contains(t, s.Output[len(s.Output)-1], "shift  complete")
}
