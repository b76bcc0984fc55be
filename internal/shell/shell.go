// Package shell implements the nested-shell interpreter state: a stack of
// command-table/prompt frames driven by a closed set of actions through a
// pure reducer and a serialized store.
package shell

// Handler executes one command. It receives the capability surface used to
// talk back to the session and the full input line as typed, command word
// included.
type Handler func(caps Caps, input string)

// Entry is one command in a table: the handler plus the description shown
// by help.
type Entry struct {
	Handler     Handler
	Description string
}

// CommandTable maps command names to entries. Tables are built once per
// narrative unit and never mutated afterwards; nesting wraps them into
// frames instead.
type CommandTable map[string]Entry

// Frame is one suspended interpreter context: the command table and prompt
// that were active before a nested shell took over. Immutable once pushed.
type Frame struct {
	Commands CommandTable
	Prompt   string
}

// Caps is the capability surface bound onto every handler invocation.
// Handlers reach the session state only through it.
type Caps interface {
	// SendToOutput appends value to the transcript as one entry.
	// returnInput controls whether the input line is enabled afterwards.
	SendToOutput(value string, returnInput bool)

	// PushShell suspends the active table and prompt and installs new ones.
	PushShell(commands CommandTable, prompt string)

	// PopShell restores the most recently suspended table and prompt.
	PopShell()
}
