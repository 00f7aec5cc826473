// Package mailbox derives the warm-up and usage status of every sending
// inbox on the team by cross-checking the user's mailboxes against the
// senders of running and past campaigns.
package mailbox

// Mailbox statuses, from most to least in need of attention. A mailbox is
// stuck when it neither warms up nor sends, and conflicted when it tries
// to do both at once.
const (
	StatusStuck     = "stuck"
	StatusConflict  = "conflict"
	StatusInUse     = "in use"
	StatusWarmingUp = "warming up"
)

// Mailbox is one sending inbox together with its derived status. Campaigns
// holds the campaign names the inbox sends for and is only populated for
// stuck and conflicted mailboxes.
type Mailbox struct {
	Email     string
	Status    string
	MailboxID string
	Campaigns []string
}
