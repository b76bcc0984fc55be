package shell

// Reduce applies one action to a state and returns the next state. It is
// pure and total: the input state is never mutated, every appended slice
// gets a fresh backing array, and every action kind produces a valid state.
// Snapshots taken before a Reduce stay valid forever.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case InputEntered:
		s.Output = appendOutput(s.Output, s.Prompt+a.Value)
		s.InputDisabled = true

	case AddOutput:
		s.Output = appendOutput(s.Output, a.Value)
		s.InputDisabled = !a.ReturnInput

	case ReturnInput:
		s.InputDisabled = false

	case PushShell:
		s.Stack = appendFrame(s.Stack, Frame{Commands: s.Commands, Prompt: s.Prompt})
		s.Commands = a.Commands
		s.Prompt = a.Prompt
		s.InputDisabled = false

	case PopShell:
		if n := len(s.Stack); n > 0 {
			top := s.Stack[n-1]
			// Re-slicing is safe: appends never write in place.
			s.Stack = s.Stack[: n-1 : n-1]
			s.Commands = top.Commands
			s.Prompt = top.Prompt
		}
		s.InputDisabled = false
	}
	return s
}

func appendOutput(out []string, entry string) []string {
	next := make([]string, len(out)+1)
	copy(next, out)
	next[len(out)] = entry
	return next
}

func appendFrame(stack []Frame, f Frame) []Frame {
	next := make([]Frame, len(stack)+1)
	copy(next, stack)
	next[len(stack)] = f
	return next
}
