package campaign

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/outstackhq/outstack/internal/pkg/message"
	"github.com/outstackhq/outstack/internal/pkg/web"
	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

const msgCampaignPaused = "Campaign set to inactive successfully"

type Service interface {
	Dashboard(ctx context.Context) ([]Summary, error)
	Pause(ctx context.Context, campaignID string) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// SummaryData is the wire form of one dashboard row.
type SummaryData struct {
	CampaignID     string  `json:"campaign_id"`
	CampaignName   string  `json:"campaign_name"`
	CompaniesCount int     `json:"companies_count"`
	PeopleCount    int     `json:"people_count"`
	PeopleEngaged  int     `json:"people_engaged"`
	OpenRate       float64 `json:"open_rate"`
	ReplyRate      float64 `json:"reply_rate"`
	CampaignStatus string  `json:"campaign_status"`
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.Dashboard(r.Context())
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]SummaryData, 0, len(summaries))
	for _, summary := range summaries {
		data = append(data, transformSummary(summary))
	}
	web.SendJSON(w, http.StatusOK, data)
}

func (h *Handler) SetInactive(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("campaignID")
	if campaignID == "" {
		web.RespondBadRequest(w, errors.New("campaign: missing campaign id"), message.InvalidInput, nil)
		return
	}

	if err := h.svc.Pause(r.Context(), campaignID); err != nil {
		if apiErr, ok := lemlist.AsAPIError(err); ok {
			msg := fmt.Sprintf("Error setting campaign inactive: HTTP %d: %s", apiErr.Status, apiErr.Body)
			web.Fail(w, apiErr.Status, err, msg, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	web.SendJSON(w, http.StatusOK, web.ActionResponse{Success: true, Message: msgCampaignPaused})
}

func transformSummary(s Summary) SummaryData {
	return SummaryData{
		CampaignID:     s.CampaignID,
		CampaignName:   s.CampaignName,
		CompaniesCount: s.Companies,
		PeopleCount:    s.People,
		PeopleEngaged:  s.PeopleEngaged,
		OpenRate:       s.OpenRate,
		ReplyRate:      s.ReplyRate,
		CampaignStatus: s.Status,
	}
}
