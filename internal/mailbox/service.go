package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/outstackhq/outstack/internal/config"
	"github.com/outstackhq/outstack/internal/pkg/errs"
	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

const (
	defaultConcurrency  = 2
	defaultBuildTimeout = 10 * time.Minute

	fallbackCampaignName = "Unknown Campaign"
)

// Client is the slice of the lemlist API the mailbox overview needs.
type Client interface {
	TeamSenders(ctx context.Context) ([]lemlist.TeamSender, error)
	GetUser(ctx context.Context, userID string) (*lemlist.UserProfile, error)
	ListCampaigns(ctx context.Context, status string) ([]lemlist.Campaign, error)
	GetCampaign(ctx context.Context, campaignID string) (*lemlist.CampaignDetail, error)
	ExportLeads(ctx context.Context, campaignID string) ([]lemlist.Lead, error)
	StartLemwarm(ctx context.Context, mailboxID string) error
	StopLemwarm(ctx context.Context, mailboxID string) error
}

// service assembles the mailbox overview from the lemlist API.
type service struct {
	client       Client
	concurrency  int
	buildTimeout time.Duration
	flight       singleflight.Group
}

var _ Service = (*service)(nil)

func NewService(client Client, opts *config.Dashboard) *service {
	svc := &service{
		client:       client,
		concurrency:  defaultConcurrency,
		buildTimeout: defaultBuildTimeout,
	}
	if opts != nil {
		if opts.CampaignConcurrency > 0 {
			svc.concurrency = opts.CampaignConcurrency
		}
		if opts.BuildTimeout.Duration > 0 {
			svc.buildTimeout = opts.BuildTimeout.Duration
		}
	}
	return svc
}

// List builds the status of every mailbox on the team. Concurrent calls
// share one in-flight build, and the build itself is detached from the
// caller's cancellation so one dropped poller cannot abort it for the rest.
func (s *service) List(ctx context.Context) ([]Mailbox, error) {
	v, err, shared := s.flight.Do("mailboxes", func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout)
		defer cancel()
		return s.build(buildCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("mailbox overview served from in-flight build")
	}
	return v.([]Mailbox), nil
}

func (s *service) StartLemwarm(ctx context.Context, mailboxID string) error {
	return s.client.StartLemwarm(ctx, mailboxID)
}

func (s *service) StopLemwarm(ctx context.Context, mailboxID string) error {
	return s.client.StopLemwarm(ctx, mailboxID)
}

func (s *service) build(ctx context.Context) ([]Mailbox, error) {
	started := time.Now()

	senders, err := s.client.TeamSenders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team senders: %w", err)
	}
	if len(senders) == 0 {
		slog.Warn("no team senders configured")
		return []Mailbox{}, nil
	}
	// the first sender carries the user that owns the team's mailboxes
	userID := senders[0].UserID
	if userID == "" {
		slog.Warn("team sender carries no user id")
		return []Mailbox{}, nil
	}

	profile, err := s.client.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load mailboxes of user %s: %w", userID, err)
	}
	if len(profile.Mailboxes) == 0 {
		slog.Info("user has no mailboxes", "user_id", userID)
		return []Mailbox{}, nil
	}
	slog.Info("building mailbox overview", "user_id", userID, "mailboxes", len(profile.Mailboxes))

	running, err := s.client.ListCampaigns(ctx, lemlist.StatusRunning)
	if err != nil {
		return nil, fmt.Errorf("list running campaigns: %w", err)
	}
	all, err := s.client.ListCampaigns(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list all campaigns: %w", err)
	}

	usages, err := s.scanCampaigns(ctx, running, all)
	if err != nil {
		return nil, fmt.Errorf("scan campaign senders: %w", err)
	}

	use := newUsage()
	for _, c := range running {
		if cu, ok := usages[c.ID]; ok && cu.running {
			use.recordRunning(cu)
		}
	}
	for _, c := range all {
		if cu, ok := usages[c.ID]; ok {
			use.recordAny(cu)
		}
	}

	list := classify(profile.Mailboxes, use)
	sortMailboxes(list)

	slog.Info("mailbox overview ready",
		"mailboxes", len(list),
		"skipped", len(profile.Mailboxes)-len(list),
		"busy_emails", len(use.inUse),
		"duration", time.Since(started),
	)
	return list, nil
}

// campaignUsage is one campaign's contribution to the overview: its senders,
// whether its leads export was reachable under the running filter, and
// whether any lead is still queued for sending.
type campaignUsage struct {
	name    string
	senders []lemlist.Sender
	running bool
	active  bool
}

// scanCampaigns fetches the senders of every distinct campaign once, plus
// the leads export of running campaigns. A campaign whose detail fetch
// fails drops out of the overview entirely; a failed leads export only
// costs the campaign its say on which emails are busy.
func (s *service) scanCampaigns(ctx context.Context, running, all []lemlist.Campaign) (map[string]*campaignUsage, error) {
	runningIDs := make(map[string]struct{}, len(running))
	for _, c := range running {
		if c.ID != "" {
			runningIDs[c.ID] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(running)+len(all))
	distinct := make([]lemlist.Campaign, 0, len(running)+len(all))
	for _, c := range running {
		if _, ok := seen[c.ID]; c.ID == "" || ok {
			continue
		}
		seen[c.ID] = struct{}{}
		distinct = append(distinct, c)
	}
	for _, c := range all {
		if _, ok := seen[c.ID]; c.ID == "" || ok {
			continue
		}
		seen[c.ID] = struct{}{}
		distinct = append(distinct, c)
	}

	slots := make([]*campaignUsage, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, c := range distinct {
		_, isRunning := runningIDs[c.ID]
		g.Go(func() error {
			cu, err := s.fetchUsage(gctx, c, isRunning)
			if err != nil {
				if errs.IsContextError(err) {
					return err
				}
				slog.Warn("dropping campaign from mailbox overview",
					"campaign_id", c.ID, "name", c.Name, "reason", err)
				return nil
			}
			slots[i] = cu
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	usages := make(map[string]*campaignUsage, len(distinct))
	for i, c := range distinct {
		if slots[i] != nil {
			usages[c.ID] = slots[i]
		}
	}
	return usages, nil
}

func (s *service) fetchUsage(ctx context.Context, c lemlist.Campaign, isRunning bool) (*campaignUsage, error) {
	detail, err := s.client.GetCampaign(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	name := c.Name
	if name == "" {
		name = fallbackCampaignName
	}
	cu := &campaignUsage{name: name, senders: detail.Senders}
	if !isRunning {
		return cu, nil
	}

	leads, err := s.client.ExportLeads(ctx, c.ID)
	if err != nil {
		if errs.IsContextError(err) {
			return nil, err
		}
		slog.Warn("leads export failed, campaign usage unknown", "campaign_id", c.ID, "reason", err)
		return cu, nil
	}
	cu.running = true
	cu.active = hasQueuedLeads(leads)
	return cu, nil
}

func hasQueuedLeads(leads []lemlist.Lead) bool {
	for _, lead := range leads {
		if !lead.Paused() && lead.Queued() {
			return true
		}
	}
	return false
}
