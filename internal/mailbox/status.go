package mailbox

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

// usage is what the campaign scan contributes to mailbox classification.
type usage struct {
	// inUse holds the sender emails of running campaigns that still have
	// queued leads.
	inUse map[string]struct{}
	// campaignNames maps a sender email to the campaigns it sends for.
	campaignNames map[string][]string
	// senderEmails maps a mailbox id to every sender email seen for it.
	senderEmails map[string][]string
	// displayEmail maps a mailbox id to the sender email campaigns
	// actually use, which can differ from the email on the mailbox itself.
	displayEmail map[string]string
}

func newUsage() *usage {
	return &usage{
		inUse:         make(map[string]struct{}),
		campaignNames: make(map[string][]string),
		senderEmails:  make(map[string][]string),
		displayEmail:  make(map[string]string),
	}
}

// recordRunning folds in a campaign from the running listing. Its sender
// emails count as busy only while the campaign has queued leads.
func (u *usage) recordRunning(c *campaignUsage) {
	for _, sender := range c.senders {
		email := senderEmail(sender)
		if email == "" {
			continue
		}
		u.campaignNames[email] = append(u.campaignNames[email], c.name)
		if sender.SendUserMailboxID != "" {
			u.addSenderEmail(sender.SendUserMailboxID, email)
		}
		if c.active {
			u.inUse[email] = struct{}{}
		}
	}
}

// recordAny folds in a campaign from the unfiltered listing. Names are
// deduplicated against the running pass, and the sender email becomes the
// display email of its mailbox, last campaign wins.
func (u *usage) recordAny(c *campaignUsage) {
	for _, sender := range c.senders {
		email := senderEmail(sender)
		if email == "" {
			continue
		}
		if !slices.Contains(u.campaignNames[email], c.name) {
			u.campaignNames[email] = append(u.campaignNames[email], c.name)
		}
		if sender.SendUserMailboxID != "" {
			u.addSenderEmail(sender.SendUserMailboxID, email)
			u.displayEmail[sender.SendUserMailboxID] = email
		}
	}
}

func (u *usage) addSenderEmail(mailboxID, email string) {
	if !slices.Contains(u.senderEmails[mailboxID], email) {
		u.senderEmails[mailboxID] = append(u.senderEmails[mailboxID], email)
	}
}

func (u *usage) emailInUse(email string) bool {
	_, ok := u.inUse[email]
	return ok
}

// senderEmail returns the usable address of a sender. Non-email senders,
// API or LinkedIn steps for instance, yield an empty string.
func senderEmail(s lemlist.Sender) string {
	if strings.Contains(s.Email, "@") {
		return s.Email
	}
	return ""
}

// classify builds one row per mailbox. Mailboxes without any usable email
// are dropped. A mailbox counts as in use when its display email, its
// configured email or any sender email ever seen for it is busy. Campaign
// names are attached to stuck and conflicted rows only, collected under
// both the display and the configured email.
func classify(boxes []lemlist.Mailbox, use *usage) []Mailbox {
	list := make([]Mailbox, 0, len(boxes))
	for _, box := range boxes {
		email := use.displayEmail[box.ID]
		if email == "" {
			email = box.Email
		}
		if email == "" {
			slog.Warn("skipping mailbox without an email", "mailbox_id", box.ID)
			continue
		}

		inUse := use.emailInUse(email) || use.emailInUse(box.Email)
		if !inUse {
			for _, candidate := range use.senderEmails[box.ID] {
				if use.emailInUse(candidate) {
					inUse = true
					break
				}
			}
		}

		status := deriveStatus(box.Lemwarm.Active, inUse)

		var campaigns []string
		if status == StatusStuck || status == StatusConflict {
			campaigns = append(campaigns, use.campaignNames[email]...)
			if box.Email != "" && box.Email != email {
				for _, name := range use.campaignNames[box.Email] {
					if !slices.Contains(campaigns, name) {
						campaigns = append(campaigns, name)
					}
				}
			}
		}

		list = append(list, Mailbox{
			Email:     email,
			Status:    status,
			MailboxID: box.ID,
			Campaigns: campaigns,
		})
	}
	return list
}

func deriveStatus(warming, inUse bool) string {
	switch {
	case warming && inUse:
		return StatusConflict
	case inUse:
		return StatusInUse
	case warming:
		return StatusWarmingUp
	default:
		return StatusStuck
	}
}

// sortMailboxes orders rows by how much attention they need, then by email.
func sortMailboxes(list []Mailbox) {
	slices.SortFunc(list, func(a, b Mailbox) int {
		if c := cmp.Compare(statusRank(a.Status), statusRank(b.Status)); c != 0 {
			return c
		}
		return cmp.Compare(a.Email, b.Email)
	})
}

func statusRank(status string) int {
	switch status {
	case StatusStuck:
		return 0
	case StatusConflict:
		return 1
	case StatusInUse:
		return 2
	case StatusWarmingUp:
		return 3
	default:
		return 99
	}
}
