package shell

// State is the single source of truth for one terminal session.
type State struct {
	// Prompt is the currently displayed prompt string.
	Prompt string

	// Stack holds the suspended parent contexts, most recent last.
	Stack []Frame

	// Commands is the active command table.
	Commands CommandTable

	// Output is the session transcript. Append-only; entry order is
	// insertion order and an entry may span multiple lines.
	Output []string

	// InputDisabled gates whether a new input line is accepted.
	InputDisabled bool
}
