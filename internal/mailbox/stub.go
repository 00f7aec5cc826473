package mailbox

import (
	"context"
	"errors"

	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

type StubService struct {
	ListFunc         func(ctx context.Context) ([]Mailbox, error)
	StartLemwarmFunc func(ctx context.Context, mailboxID string) error
	StopLemwarmFunc  func(ctx context.Context, mailboxID string) error
}

var _ Service = (*StubService)(nil)

func (s *StubService) List(ctx context.Context) ([]Mailbox, error) {
	if s.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return s.ListFunc(ctx)
}

func (s *StubService) StartLemwarm(ctx context.Context, mailboxID string) error {
	if s.StartLemwarmFunc == nil {
		return errors.New("StartLemwarm() not implemented by stub")
	}
	return s.StartLemwarmFunc(ctx, mailboxID)
}

func (s *StubService) StopLemwarm(ctx context.Context, mailboxID string) error {
	if s.StopLemwarmFunc == nil {
		return errors.New("StopLemwarm() not implemented by stub")
	}
	return s.StopLemwarmFunc(ctx, mailboxID)
}

type StubClient struct {
	TeamSendersFunc   func(ctx context.Context) ([]lemlist.TeamSender, error)
	GetUserFunc       func(ctx context.Context, userID string) (*lemlist.UserProfile, error)
	ListCampaignsFunc func(ctx context.Context, status string) ([]lemlist.Campaign, error)
	GetCampaignFunc   func(ctx context.Context, campaignID string) (*lemlist.CampaignDetail, error)
	ExportLeadsFunc   func(ctx context.Context, campaignID string) ([]lemlist.Lead, error)
	StartLemwarmFunc  func(ctx context.Context, mailboxID string) error
	StopLemwarmFunc   func(ctx context.Context, mailboxID string) error
}

var _ Client = (*StubClient)(nil)

func (c *StubClient) TeamSenders(ctx context.Context) ([]lemlist.TeamSender, error) {
	if c.TeamSendersFunc == nil {
		return nil, errors.New("TeamSenders() not implemented by stub")
	}
	return c.TeamSendersFunc(ctx)
}

func (c *StubClient) GetUser(ctx context.Context, userID string) (*lemlist.UserProfile, error) {
	if c.GetUserFunc == nil {
		return nil, errors.New("GetUser() not implemented by stub")
	}
	return c.GetUserFunc(ctx, userID)
}

func (c *StubClient) ListCampaigns(ctx context.Context, status string) ([]lemlist.Campaign, error) {
	if c.ListCampaignsFunc == nil {
		return nil, errors.New("ListCampaigns() not implemented by stub")
	}
	return c.ListCampaignsFunc(ctx, status)
}

func (c *StubClient) GetCampaign(ctx context.Context, campaignID string) (*lemlist.CampaignDetail, error) {
	if c.GetCampaignFunc == nil {
		return nil, errors.New("GetCampaign() not implemented by stub")
	}
	return c.GetCampaignFunc(ctx, campaignID)
}

func (c *StubClient) ExportLeads(ctx context.Context, campaignID string) ([]lemlist.Lead, error) {
	if c.ExportLeadsFunc == nil {
		return nil, errors.New("ExportLeads() not implemented by stub")
	}
	return c.ExportLeadsFunc(ctx, campaignID)
}

func (c *StubClient) StartLemwarm(ctx context.Context, mailboxID string) error {
	if c.StartLemwarmFunc == nil {
		return errors.New("StartLemwarm() not implemented by stub")
	}
	return c.StartLemwarmFunc(ctx, mailboxID)
}

func (c *StubClient) StopLemwarm(ctx context.Context, mailboxID string) error {
	if c.StopLemwarmFunc == nil {
		return errors.New("StopLemwarm() not implemented by stub")
	}
	return c.StopLemwarmFunc(ctx, mailboxID)
}
