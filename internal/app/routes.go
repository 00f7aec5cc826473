package app

import (
	"net/http"

	"github.com/outstackhq/outstack/internal/campaign"
	"github.com/outstackhq/outstack/internal/mailbox"
	"github.com/outstackhq/outstack/internal/pkg/web"
	"github.com/outstackhq/outstack/internal/platform/router"
)

type healthData struct {
	Status string `json:"status"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	web.SendJSON(w, http.StatusOK, healthData{Status: "healthy"})
}

func mountRoutes(r router.Router, campaigns *campaign.Handler, mailboxes *mailbox.Handler) {
	r.Get("/health", handleHealth)

	r.Get("/api/campaigns/dashboard", campaigns.Dashboard)
	r.Group("/api/campaigns", func(gr router.Router) {
		gr.Post("/{campaignID}/set-inactive", campaigns.SetInactive)
	})

	r.Get("/api/mailboxes", mailboxes.List)
	r.Group("/api/mailboxes", func(gr router.Router) {
		gr.Post("/{mailboxID}/start-lemwarm", mailboxes.StartLemwarm)
		gr.Post("/{mailboxID}/stop-lemwarm", mailboxes.StopLemwarm)
	})
}
