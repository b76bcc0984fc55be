// Package zerohour ships the "00:00" chapter: a night-shift operator on a
// corporate relay whose system clock froze at midnight. The mailbox
// explains the situation; the console commands fix it.
package zerohour

import (
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nirradi/sparrownet/internal/chapter"
	"github.com/nirradi/sparrownet/internal/shell"
)

//go:embed chapter.yaml
var defaultChapterYAML []byte

// Data is the authorable part of the chapter, loaded from YAML.
type Data struct {
	Title        string            `yaml:"title"`
	Prompt       string            `yaml:"prompt"`
	Banner       string            `yaml:"banner"`
	Briefing     string            `yaml:"briefing"`
	SystemConfig map[string]string `yaml:"system_config"`
	Mailbox      []Message         `yaml:"mailbox"`
}

// Message is one piece of mail preloaded into the relay mailbox.
type Message struct {
	From string `yaml:"from"`
	Time string `yaml:"time"`
	Body string `yaml:"body"`
}

// Validate reports the first structural problem with the chapter data.
func (d Data) Validate() error {
	switch {
	case d.Title == "":
		return fmt.Errorf("chapter has no title")
	case d.Prompt == "":
		return fmt.Errorf("chapter has no prompt")
	case d.Banner == "":
		return fmt.Errorf("chapter has no banner")
	}
	for i, m := range d.Mailbox {
		switch {
		case m.From == "":
			return fmt.Errorf("mailbox[%d] has no sender", i)
		case m.Time == "":
			return fmt.Errorf("mailbox[%d] has no timestamp", i)
		case m.Body == "":
			return fmt.Errorf("mailbox[%d] has no body", i)
		}
	}
	return nil
}

// Parse decodes and validates chapter data.
func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parse chapter data: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Data{}, fmt.Errorf("invalid chapter data: %w", err)
	}
	return d, nil
}

// LoadFile reads chapter data from an external YAML file. Authors iterate
// on chapter files without rebuilding.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read chapter file: %w", err)
	}
	return Parse(raw)
}

// Default returns the chapter data baked into the binary.
func Default() (Data, error) {
	return Parse(defaultChapterYAML)
}

// MustDefault loads the embedded chapter data and panics on error. Use it
// at initialization, where a broken embed is unrecoverable.
func MustDefault() Data {
	d, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded chapter data is broken: %v", err))
	}
	return d
}

// New assembles the playable chapter from data: a fresh game state wrapped
// in the console command table, with the mailbox preloaded.
func New(data Data, log *zap.Logger) chapter.Chapter {
	c := newConsole(data, log)
	return chapter.Chapter{
		Title:    data.Title,
		Prompt:   data.Prompt,
		Banner:   data.Banner,
		Briefing: data.Briefing,
		Commands: c.rootTable(data.Mailbox),
	}
}

// rootTable is the chapter's top-level command set.
func (c *console) rootTable(mail []Message) shell.CommandTable {
	return shell.CommandTable{
		"mail":      BuildMailbox(mail),
		"clock":     {Handler: c.clock, Description: "show or set the system clock"},
		"send":      {Handler: c.send, Description: "send an e-mail: send <recipient> <body>"},
		"sysconfig": {Handler: c.sysconfig, Description: "print the relay system configuration"},
		"note":      {Handler: c.note, Description: "keep a shift note, or list them"},
		"status":    {Handler: c.status, Description: "summarize the shift so far"},
	}
}
