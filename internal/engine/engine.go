// Package engine bridges raw input lines and the shell store. It echoes
// input into the transcript, resolves the command word against the active
// table, schedules handlers, and is the capability surface handlers use to
// emit output and push or pop shells.
package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/nirradi/sparrownet/internal/shell"
)

// helpNameWidth is the column command names are right-aligned into in help
// output. Longer names are truncated to keep the listing aligned.
const helpNameWidth = 12

// Engine drives one terminal session against one store.
type Engine struct {
	store *shell.Store
	log   *zap.Logger
	wg    sync.WaitGroup
}

var _ shell.Caps = (*Engine)(nil)

// New creates an engine bound to store. Pass zap.NewNop() when logging is
// not wanted.
func New(store *shell.Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Start enters the session: it installs the root command table with its
// prompt, then prints the opening banner with input enabled. Call it once,
// before any Run.
func (e *Engine) Start(root shell.CommandTable, prompt, banner string) {
	e.store.Dispatch(shell.PushShell{Commands: root, Prompt: prompt})
	e.store.Dispatch(shell.AddOutput{Value: banner, ReturnInput: true})
}

// Run interprets one committed input line. The echo is in the transcript
// before Run returns; a matched handler then runs on its own goroutine, so
// handler output always lands after the echo. Handlers are fire and forget:
// no timeout, no cancellation.
func (e *Engine) Run(input string) {
	name := input
	if i := strings.IndexByte(input, ' '); i >= 0 {
		name = input[:i]
	}

	table := e.store.Snapshot().Commands
	e.store.Dispatch(shell.InputEntered{Value: input})

	switch {
	case name == "":
		e.store.Dispatch(shell.ReturnInput{})

	case name == "help":
		e.store.Dispatch(shell.AddOutput{Value: helpText(table), ReturnInput: true})

	default:
		entry, ok := table[name]
		if !ok {
			e.log.Debug("unknown command", zap.String("command", name))
			e.store.Dispatch(shell.AddOutput{Value: "bad command", ReturnInput: true})
			return
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			entry.Handler(e, input)
		}()
	}
}

// Wait blocks until every handler scheduled so far has returned. For
// shutdown and tests; sessions never wait on handlers.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// SendToOutput appends value to the transcript as one entry.
func (e *Engine) SendToOutput(value string, returnInput bool) {
	e.store.Dispatch(shell.AddOutput{Value: value, ReturnInput: returnInput})
}

// PushShell suspends the active table and prompt and installs new ones.
func (e *Engine) PushShell(commands shell.CommandTable, prompt string) {
	e.store.Dispatch(shell.PushShell{Commands: commands, Prompt: prompt})
}

// PopShell restores the most recently suspended table and prompt.
func (e *Engine) PopShell() {
	e.store.Dispatch(shell.PopShell{})
}

// helpText renders one line per command, sorted by name. Map iteration
// order must not leak into the transcript. Names are truncated and padded
// by display cell, not byte, so multibyte command names stay aligned.
func helpText(table shell.CommandTable) string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		display := runewidth.Truncate(name, helpNameWidth, "")
		lines[i] = runewidth.FillLeft(display, helpNameWidth) + "  " + table[name].Description
	}
	return strings.Join(lines, "\n")
}
