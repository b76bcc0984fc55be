package shell

// Action is one state transition request. The set is closed: exactly the
// five types in this file implement it.
type Action interface {
	isAction()
}

// InputEntered records a committed input line. The echo (prompt plus value)
// lands in the transcript and input is disabled until a later action
// re-enables it.
type InputEntered struct {
	Value string
}

// AddOutput appends one transcript entry. Value may span multiple lines and
// is preserved verbatim. ReturnInput controls whether input is enabled once
// the entry has been appended.
type AddOutput struct {
	Value       string
	ReturnInput bool
}

// ReturnInput enables input. No other field changes.
type ReturnInput struct{}

// PushShell suspends the active command table and prompt onto the stack and
// installs the given pair.
type PushShell struct {
	Commands CommandTable
	Prompt   string
}

// PopShell restores the most recently suspended frame. On an empty stack it
// only enables input.
type PopShell struct{}

func (InputEntered) isAction() {}
func (AddOutput) isAction()    {}
func (ReturnInput) isAction()  {}
func (PushShell) isAction()    {}
func (PopShell) isAction()     {}
