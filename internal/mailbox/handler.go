package mailbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/outstackhq/outstack/internal/pkg/message"
	"github.com/outstackhq/outstack/internal/pkg/web"
	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

const (
	msgLemwarmStarted = "Lemwarm started successfully"
	msgLemwarmStopped = "Lemwarm stopped successfully"
)

type Service interface {
	List(ctx context.Context) ([]Mailbox, error)
	StartLemwarm(ctx context.Context, mailboxID string) error
	StopLemwarm(ctx context.Context, mailboxID string) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// MailboxData is the wire form of one mailbox row. Campaigns stays null
// unless the mailbox needs attention.
type MailboxData struct {
	Email     string   `json:"email"`
	Status    string   `json:"status"`
	MailboxID string   `json:"mailbox_id"`
	Campaigns []string `json:"campaigns"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mailboxes, err := h.svc.List(r.Context())
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]MailboxData, 0, len(mailboxes))
	for _, mb := range mailboxes {
		data = append(data, MailboxData{
			Email:     mb.Email,
			Status:    mb.Status,
			MailboxID: mb.MailboxID,
			Campaigns: mb.Campaigns,
		})
	}
	web.SendJSON(w, http.StatusOK, data)
}

func (h *Handler) StartLemwarm(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.StartLemwarm, "Error starting lemwarm", msgLemwarmStarted)
}

func (h *Handler) StopLemwarm(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.StopLemwarm, "Error stopping lemwarm", msgLemwarmStopped)
}

// forward relays a lemwarm action upstream. Upstream rejections keep their
// status code and surface the upstream body in the message.
func (h *Handler) forward(w http.ResponseWriter, r *http.Request, action func(context.Context, string) error, errPrefix, okMsg string) {
	mailboxID := r.PathValue("mailboxID")
	if mailboxID == "" {
		web.RespondBadRequest(w, errors.New("mailbox: missing mailbox id"), message.InvalidInput, nil)
		return
	}

	if err := action(r.Context(), mailboxID); err != nil {
		if apiErr, ok := lemlist.AsAPIError(err); ok {
			msg := fmt.Sprintf("%s: HTTP %d: %s", errPrefix, apiErr.Status, apiErr.Body)
			web.Fail(w, apiErr.Status, err, msg, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	web.SendJSON(w, http.StatusOK, web.ActionResponse{Success: true, Message: okMsg})
}
