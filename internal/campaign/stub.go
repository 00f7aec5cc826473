package campaign

import (
	"context"
	"errors"

	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

type StubService struct {
	DashboardFunc func(ctx context.Context) ([]Summary, error)
	PauseFunc     func(ctx context.Context, campaignID string) error
}

var _ Service = (*StubService)(nil)

func (s *StubService) Dashboard(ctx context.Context) ([]Summary, error) {
	if s.DashboardFunc == nil {
		return nil, errors.New("Dashboard() not implemented by stub")
	}
	return s.DashboardFunc(ctx)
}

func (s *StubService) Pause(ctx context.Context, campaignID string) error {
	if s.PauseFunc == nil {
		return errors.New("Pause() not implemented by stub")
	}
	return s.PauseFunc(ctx, campaignID)
}

type StubClient struct {
	ListCampaignsFunc  func(ctx context.Context, status string) ([]lemlist.Campaign, error)
	ExportLeadsFunc    func(ctx context.Context, campaignID string) ([]lemlist.Lead, error)
	ListActivitiesFunc func(ctx context.Context, campaignID string, activityType lemlist.ActivityType) ([]lemlist.Activity, error)
	PauseCampaignFunc  func(ctx context.Context, campaignID string) error
}

var _ Client = (*StubClient)(nil)

func (c *StubClient) ListCampaigns(ctx context.Context, status string) ([]lemlist.Campaign, error) {
	if c.ListCampaignsFunc == nil {
		return nil, errors.New("ListCampaigns() not implemented by stub")
	}
	return c.ListCampaignsFunc(ctx, status)
}

func (c *StubClient) ExportLeads(ctx context.Context, campaignID string) ([]lemlist.Lead, error) {
	if c.ExportLeadsFunc == nil {
		return nil, errors.New("ExportLeads() not implemented by stub")
	}
	return c.ExportLeadsFunc(ctx, campaignID)
}

func (c *StubClient) ListActivities(ctx context.Context, campaignID string, activityType lemlist.ActivityType) ([]lemlist.Activity, error) {
	if c.ListActivitiesFunc == nil {
		return nil, errors.New("ListActivities() not implemented by stub")
	}
	return c.ListActivitiesFunc(ctx, campaignID, activityType)
}

func (c *StubClient) PauseCampaign(ctx context.Context, campaignID string) error {
	if c.PauseCampaignFunc == nil {
		return errors.New("PauseCampaign() not implemented by stub")
	}
	return c.PauseCampaignFunc(ctx, campaignID)
}
