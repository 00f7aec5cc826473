package lemlist

// Campaign statuses accepted by the campaigns listing endpoint.
const StatusRunning = "running"

// Lead states reported by the leads export.
const (
	LeadStatePaused      = "paused"
	LeadStateReadyToSend = "readyToSend"
	LeadStateInProgress  = "inProgress"
)

// ActivityType selects one feed of the activities endpoint.
type ActivityType string

const (
	ActivityEmailsSent    ActivityType = "emailsSent"
	ActivityEmailsOpened  ActivityType = "emailsOpened"
	ActivityEmailsReplied ActivityType = "emailsReplied"
	ActivityEmailsClicked ActivityType = "emailsClicked"
)

// Campaign is one entry of the campaigns listing.
type Campaign struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// CampaignDetail is the full campaign record including its senders.
type CampaignDetail struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Senders []Sender `json:"senders"`
}

// Sender is one sending identity attached to a campaign. Non-email
// senders (type "api", "linkedinVisit" and the like) carry no email.
type Sender struct {
	Email             string `json:"email"`
	SendUserMailboxID string `json:"sendUserMailboxId"`
	Type              string `json:"type,omitempty"`
}

// Lead is one recipient exported from a campaign.
type Lead struct {
	ID          string `json:"_id"`
	Email       string `json:"email"`
	State       string `json:"state"`
	StateSystem string `json:"stateSystem"`
	CompanyName string `json:"companyName"`
	Company     string `json:"company"`
}

// Paused reports whether the lead was taken out of sending, either by hand
// or by the system.
func (l Lead) Paused() bool {
	return l.State == LeadStatePaused || l.StateSystem == LeadStatePaused
}

// Queued reports whether the lead is still waiting for or receiving sends.
func (l Lead) Queued() bool {
	return l.State == LeadStateReadyToSend ||
		l.StateSystem == LeadStateReadyToSend ||
		l.StateSystem == LeadStateInProgress
}

// Activity is one event from the activities feed.
type Activity struct {
	ID         string `json:"_id"`
	Type       string `json:"type"`
	LeadID     string `json:"leadId"`
	CampaignID string `json:"campaignId"`
}

// TeamSender is one entry of the team senders listing.
type TeamSender struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// UserProfile is the user record holding the team's mailboxes.
type UserProfile struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Mailboxes []Mailbox `json:"mailboxes"`
}

// Mailbox is one sending inbox configured on a user.
type Mailbox struct {
	ID      string  `json:"_id"`
	Email   string  `json:"email"`
	Lemwarm Lemwarm `json:"lemwarm"`
}

// Lemwarm is the warm-up state of a mailbox.
type Lemwarm struct {
	Active bool `json:"active"`
}
