package campaign

import (
	"math"
	"strings"

	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

// roster is what the leads export contributes to a summary.
type roster struct {
	people    int
	companies int
	hasActive bool
}

// summarizeLeads drops paused leads, counts the rest and their distinct
// companies, and records whether any lead is still queued for sending.
func summarizeLeads(leads []lemlist.Lead) roster {
	companies := make(map[string]struct{})
	var r roster
	for _, lead := range leads {
		if lead.Paused() {
			continue
		}
		r.people++

		company := lead.CompanyName
		if company == "" {
			company = lead.Company
		}
		if company = strings.TrimSpace(company); company != "" {
			companies[company] = struct{}{}
		}

		if lead.Queued() {
			r.hasActive = true
		}
	}
	r.companies = len(companies)
	return r
}

// engagement is what the activity feeds contribute to a summary. All three
// counts are distinct leads, not raw event totals.
type engagement struct {
	reached  int
	openers  int
	repliers int
}

func summarizeActivities(sent, opened, replied []lemlist.Activity) engagement {
	return engagement{
		reached:  countUniqueLeads(sent),
		openers:  countUniqueLeads(opened),
		repliers: countUniqueLeads(replied),
	}
}

func countUniqueLeads(activities []lemlist.Activity) int {
	seen := make(map[string]struct{}, len(activities))
	for _, activity := range activities {
		if activity.LeadID == "" {
			continue
		}
		seen[activity.LeadID] = struct{}{}
	}
	return len(seen)
}

// engagementRate is count over reached as a percentage, rounded to two
// decimals. Zero reached leads yield a zero rate.
func engagementRate(count, reached int) float64 {
	if reached == 0 {
		return 0
	}
	pct := float64(count) / float64(reached) * 100
	return math.Round(pct*100) / 100
}
