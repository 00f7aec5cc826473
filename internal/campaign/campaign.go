package campaign

// Derived campaign statuses. A running campaign counts as ended once none
// of its remaining leads are queued for sending.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Summary is the aggregated dashboard view of one running campaign.
type Summary struct {
	CampaignID    string
	CampaignName  string
	Companies     int
	People        int
	PeopleEngaged int
	OpenRate      float64
	ReplyRate     float64
	Status        string
}
