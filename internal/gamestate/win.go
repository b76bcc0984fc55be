package gamestate

// opsDesk is the address the stuck-clock escalation must reach.
const opsDesk = "ops@corp"

// CheckWin reports whether the chapter goal is met: the clock has been
// moved off the 00:00 default and at least one mail reached the ops desk
// after the clock started moving.
func CheckWin(s GameState) bool {
	if s.Strict.Clock.Time == "00:00" {
		return false
	}
	for _, email := range s.Strict.Emails {
		if email.Recipient == opsDesk && email.SentAt != "00:00" {
			return true
		}
	}
	return false
}
