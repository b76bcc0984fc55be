// Package chapter defines the narrative unit a terminal session boots.
package chapter

import "github.com/nirradi/sparrownet/internal/shell"

// Chapter is one self-contained narrative unit: the root command table the
// player starts in plus the text around it. The engine consumes Commands,
// Prompt and Banner at session start; Briefing is markdown shown by the
// presentation layer on demand.
type Chapter struct {
	Title    string
	Prompt   string
	Banner   string
	Briefing string
	Commands shell.CommandTable
}
