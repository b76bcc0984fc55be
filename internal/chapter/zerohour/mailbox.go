package zerohour

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nirradi/sparrownet/internal/shell"
)

// mailDelimiter borders every rendered message.
var mailDelimiter = strings.Repeat("-", 40)

// mailbox owns the unread and read lists. Nothing outside the handlers
// built by BuildMailbox can reach them; messages move from unread to read
// in insertion order.
type mailbox struct {
	mu     sync.Mutex
	unread []Message
	read   []Message
}

// BuildMailbox wraps messages into a self-contained top-level command
// entry. Opening it reports the unread count and drops the player into a
// nested mail shell offering exactly next and quit.
func BuildMailbox(messages []Message) shell.Entry {
	box := &mailbox{unread: append([]Message(nil), messages...)}
	return shell.Entry{
		Handler:     box.open,
		Description: "read the relay mailbox",
	}
}

func (b *mailbox) open(caps shell.Caps, _ string) {
	b.mu.Lock()
	n := len(b.unread)
	b.mu.Unlock()

	caps.SendToOutput(unreadSummary(n), true)
	caps.PushShell(shell.CommandTable{
		"next": {Handler: b.next, Description: "read the oldest unread e-mail"},
		"quit": {Handler: b.quit, Description: "leave the mailbox"},
	}, "mail> ")
}

func (b *mailbox) next(caps shell.Caps, _ string) {
	b.mu.Lock()
	if len(b.unread) == 0 {
		b.mu.Unlock()
		caps.SendToOutput("there are no more unread e-mails", true)
		return
	}
	msg := b.unread[0]
	b.unread = b.unread[1:]
	b.read = append(b.read, msg)
	b.mu.Unlock()

	caps.SendToOutput(renderMessage(msg), true)
}

func (b *mailbox) quit(caps shell.Caps, _ string) {
	caps.PopShell()
}

func unreadSummary(n int) string {
	noun := "e-mails"
	if n == 1 {
		noun = "e-mail"
	}
	return fmt.Sprintf("You have %d unread %s. Type next to read, quit to leave.", n, noun)
}

// renderMessage formats one message inside the fixed delimiter border.
func renderMessage(m Message) string {
	var sb strings.Builder
	sb.WriteString(mailDelimiter)
	sb.WriteByte('\n')
	sb.WriteString("From: " + m.From + "\n")
	sb.WriteString("Time: " + m.Time + "\n\n")
	sb.WriteString(strings.TrimRight(m.Body, "\n"))
	sb.WriteByte('\n')
	sb.WriteString(mailDelimiter)
	return sb.String()
}
