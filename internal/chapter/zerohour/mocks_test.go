package zerohour

import "github.com/nirradi/sparrownet/internal/shell"

// fakeCaps records capability calls so handlers can be asserted without a
// running engine.
type fakeCaps struct {
	outputs       []string
	returnFlags   []bool
	pushedTables  []shell.CommandTable
	pushedPrompts []string
	pops          int
}

var _ shell.Caps = (*fakeCaps)(nil)

func (f *fakeCaps) SendToOutput(value string, returnInput bool) {
	f.outputs = append(f.outputs, value)
	f.returnFlags = append(f.returnFlags, returnInput)
}

func (f *fakeCaps) PushShell(commands shell.CommandTable, prompt string) {
	f.pushedTables = append(f.pushedTables, commands)
	f.pushedPrompts = append(f.pushedPrompts, prompt)
}

func (f *fakeCaps) PopShell() {
	f.pops++
}

func (f *fakeCaps) lastOutput() string {
	if len(f.outputs) == 0 {
		return ""
	}
	return f.outputs[len(f.outputs)-1]
}
