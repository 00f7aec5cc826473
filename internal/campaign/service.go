package campaign

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

	fallbackCampaignName = "Unnamed Campaign"
)

// Client is the slice of the lemlist API the dashboard needs.
type Client interface {
	ListCampaigns(ctx context.Context, status string) ([]lemlist.Campaign, error)
	ExportLeads(ctx context.Context, campaignID string) ([]lemlist.Lead, error)
	ListActivities(ctx context.Context, campaignID string, activityType lemlist.ActivityType) ([]lemlist.Activity, error)
	PauseCampaign(ctx context.Context, campaignID string) error
}

// service assembles campaign summaries from the lemlist API.
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

// Dashboard builds the summary of every running campaign. Concurrent calls
// share one in-flight build, and the build itself is detached from the
// caller's cancellation so one dropped poller cannot abort it for the rest.
func (s *service) Dashboard(ctx context.Context) ([]Summary, error) {
	v, err, shared := s.flight.Do("dashboard", func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout)
		defer cancel()
		return s.build(buildCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("dashboard served from in-flight build")
	}
	return v.([]Summary), nil
}

func (s *service) Pause(ctx context.Context, campaignID string) error {
	return s.client.PauseCampaign(ctx, campaignID)
}

func (s *service) build(ctx context.Context) ([]Summary, error) {
	started := time.Now()
	campaigns, err := s.client.ListCampaigns(ctx, lemlist.StatusRunning)
	if err != nil {
		return nil, fmt.Errorf("list running campaigns: %w", err)
	}
	slog.Info("building campaign dashboard", "campaigns", len(campaigns))

	// one slot per campaign keeps the listing order stable; failed
	// campaigns leave their slot nil and are dropped afterwards
	summaries := make([]*Summary, len(campaigns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, cmp := range campaigns {
		if cmp.ID == "" {
			slog.Warn("skipping campaign without an id", "name", cmp.Name)
			continue
		}
		g.Go(func() error {
			summary, err := s.summarize(gctx, cmp)
			if err != nil {
				if errs.IsContextError(err) {
					return err
				}
				slog.Warn("skipping campaign", "campaign_id", cmp.ID, "name", cmp.Name, "reason", err)
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	result := make([]Summary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil {
			result = append(result, *summary)
		}
	}

	slog.Info("campaign dashboard ready",
		"campaigns", len(result),
		"skipped", len(campaigns)-len(result),
		"duration", time.Since(started),
	)
	return result, nil
}

func (s *service) summarize(ctx context.Context, cmp lemlist.Campaign) (*Summary, error) {
	name := cmp.Name
	if name == "" {
		name = fallbackCampaignName
	}

	leads, err := s.client.ExportLeads(ctx, cmp.ID)
	if err != nil {
		return nil, fmt.Errorf("export leads: %w", err)
	}
	r := summarizeLeads(leads)

	activities, err := s.fetchActivities(ctx, cmp.ID)
	if err != nil {
		return nil, err
	}
	e := summarizeActivities(
		activities[lemlist.ActivityEmailsSent],
		activities[lemlist.ActivityEmailsOpened],
		activities[lemlist.ActivityEmailsReplied],
	)

	status := StatusActive
	if !r.hasActive && r.people > 0 {
		status = StatusEnded
	}

	return &Summary{
		CampaignID:    cmp.ID,
		CampaignName:  name,
		Companies:     r.companies,
		People:        r.people,
		PeopleEngaged: e.reached,
		OpenRate:      engagementRate(e.openers, e.reached),
		ReplyRate:     engagementRate(e.repliers, e.reached),
		Status:        status,
	}, nil
}

// fetchActivities pulls the four activity feeds of a campaign in parallel.
// Feed failures degrade to whatever pages were fetched; only a cancelled or
// timed-out context aborts the whole fan-out.
func (s *service) fetchActivities(ctx context.Context, campaignID string) (map[lemlist.ActivityType][]lemlist.Activity, error) {
	types := []lemlist.ActivityType{
		lemlist.ActivityEmailsSent,
		lemlist.ActivityEmailsOpened,
		lemlist.ActivityEmailsReplied,
		lemlist.ActivityEmailsClicked,
	}

	results := make([][]lemlist.Activity, len(types))
	g, gctx := errgroup.WithContext(ctx)
	for i, activityType := range types {
		g.Go(func() error {
			batch, err := s.client.ListActivities(gctx, campaignID, activityType)
			if err != nil {
				if errs.IsContextError(err) {
					return err
				}
				slog.Warn("using partial activity data",
					"campaign_id", campaignID,
					"type", activityType,
					"fetched", len(batch),
					"reason", err,
				)
			}
			results[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byType := make(map[lemlist.ActivityType][]lemlist.Activity, len(types))
	for i, activityType := range types {
		byType[activityType] = results[i]
	}
	return byType, nil
}
