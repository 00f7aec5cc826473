package campaign_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/outstackhq/outstack/internal/campaign"
	"github.com/outstackhq/outstack/internal/platform/lemlist"
)

func acts(leadIDs ...string) []lemlist.Activity {
	out := make([]lemlist.Activity, 0, len(leadIDs))
	for _, id := range leadIDs {
		out = append(out, lemlist.Activity{LeadID: id})
	}
	return out
}

func noActivities(_ context.Context, _ string, _ lemlist.ActivityType) ([]lemlist.Activity, error) {
	return nil, nil
}

func TestService_Dashboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		client  *campaign.StubClient
		want    []campaign.Summary
		wantErr bool
	}{
		{
			name: "aggregates leads and activities",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, status string) ([]lemlist.Campaign, error) {
					if status != lemlist.StatusRunning {
						return nil, errors.New("unexpected status filter: " + status)
					}
					return []lemlist.Campaign{{ID: "c1", Name: "Launch"}}, nil
				},
				ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
					return []lemlist.Lead{
						{ID: "l1", State: "readyToSend", CompanyName: "Acme"},
						{ID: "l2", State: "contacted", StateSystem: "sent", CompanyName: " Acme "},
						{ID: "l3", State: "paused", CompanyName: "Beta"},
						{ID: "l4", StateSystem: "paused", CompanyName: "Delta"},
						{ID: "l5", State: "contacted", Company: "Gamma"},
					}, nil
				},
				ListActivitiesFunc: func(_ context.Context, _ string, activityType lemlist.ActivityType) ([]lemlist.Activity, error) {
					switch activityType {
					case lemlist.ActivityEmailsSent:
						return acts("l1", "l2", "l2"), nil
					case lemlist.ActivityEmailsOpened:
						return acts("l1"), nil
					default:
						return nil, nil
					}
				},
			},
			want: []campaign.Summary{
				{
					CampaignID:    "c1",
					CampaignName:  "Launch",
					Companies:     2,
					People:        3,
					PeopleEngaged: 2,
					OpenRate:      50,
					ReplyRate:     0,
					Status:        campaign.StatusActive,
				},
			},
		},
		{
			name: "rounds rates to two decimals",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return []lemlist.Campaign{{ID: "c1", Name: "Drip"}}, nil
				},
				ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
					return []lemlist.Lead{
						{ID: "l1", StateSystem: "inProgress"},
						{ID: "l2", StateSystem: "inProgress"},
						{ID: "l3", StateSystem: "inProgress"},
					}, nil
				},
				ListActivitiesFunc: func(_ context.Context, _ string, activityType lemlist.ActivityType) ([]lemlist.Activity, error) {
					switch activityType {
					case lemlist.ActivityEmailsSent:
						return acts("l1", "l2", "l3"), nil
					case lemlist.ActivityEmailsOpened:
						return acts("l1"), nil
					case lemlist.ActivityEmailsReplied:
						return acts("l1", "l2"), nil
					default:
						return nil, nil
					}
				},
			},
			want: []campaign.Summary{
				{
					CampaignID:    "c1",
					CampaignName:  "Drip",
					People:        3,
					PeopleEngaged: 3,
					OpenRate:      33.33,
					ReplyRate:     66.67,
					Status:        campaign.StatusActive,
				},
			},
		},
		{
			name: "marks campaigns without queued leads as ended",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return []lemlist.Campaign{{ID: "c1", Name: "Done"}}, nil
				},
				ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
					return []lemlist.Lead{
						{ID: "l1", State: "contacted", StateSystem: "sent"},
					}, nil
				},
				ListActivitiesFunc: noActivities,
			},
			want: []campaign.Summary{
				{
					CampaignID:   "c1",
					CampaignName: "Done",
					People:       1,
					Status:       campaign.StatusEnded,
				},
			},
		},
		{
			name: "treats empty campaigns as active",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return []lemlist.Campaign{{ID: "c1", Name: "Fresh"}}, nil
				},
				ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
					return nil, nil
				},
				ListActivitiesFunc: noActivities,
			},
			want: []campaign.Summary{
				{
					CampaignID:   "c1",
					CampaignName: "Fresh",
					Status:       campaign.StatusActive,
				},
			},
		},
		{
			name: "skips campaigns whose leads export fails",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return []lemlist.Campaign{
						{ID: "c1", Name: "First"},
						{ID: "c2", Name: "Broken"},
						{ID: "c3", Name: "Third"},
					}, nil
				},
				ExportLeadsFunc: func(_ context.Context, campaignID string) ([]lemlist.Lead, error) {
					if campaignID == "c2" {
						return nil, errors.New("export timed out")
					}
					return nil, nil
				},
				ListActivitiesFunc: noActivities,
			},
			want: []campaign.Summary{
				{CampaignID: "c1", CampaignName: "First", Status: campaign.StatusActive},
				{CampaignID: "c3", CampaignName: "Third", Status: campaign.StatusActive},
			},
		},
		{
			name: "skips campaigns without an id and names the unnamed",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return []lemlist.Campaign{
						{ID: "", Name: "Ghost"},
						{ID: "c2"},
					}, nil
				},
				ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
					return nil, nil
				},
				ListActivitiesFunc: noActivities,
			},
			want: []campaign.Summary{
				{CampaignID: "c2", CampaignName: "Unnamed Campaign", Status: campaign.StatusActive},
			},
		},
		{
			name: "keeps partial activity data",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return []lemlist.Campaign{{ID: "c1", Name: "Flaky"}}, nil
				},
				ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
					return []lemlist.Lead{{ID: "l1", StateSystem: "inProgress"}}, nil
				},
				ListActivitiesFunc: func(_ context.Context, _ string, activityType lemlist.ActivityType) ([]lemlist.Activity, error) {
					if activityType == lemlist.ActivityEmailsSent {
						return acts("l1"), errors.New("page 3 failed")
					}
					return nil, nil
				},
			},
			want: []campaign.Summary{
				{
					CampaignID:    "c1",
					CampaignName:  "Flaky",
					People:        1,
					PeopleEngaged: 1,
					Status:        campaign.StatusActive,
				},
			},
		},
		{
			name: "fails when the campaign listing fails",
			client: &campaign.StubClient{
				ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
					return nil, errors.New("upstream down")
				},
			},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := campaign.NewService(tc.client, nil)

			got, err := svc.Dashboard(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatal("svc.Dashboard() error = nil, want: error")
				}
				return
			}
			if err != nil {
				t.Fatalf("svc.Dashboard() error = %v", err)
			}

			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("svc.Dashboard() = %+v, want: %+v", got, tc.want)
			}
		})
	}
}

func TestService_Dashboard_ContextErrorAbortsBuild(t *testing.T) {
	t.Parallel()

	client := &campaign.StubClient{
		ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
			return []lemlist.Campaign{
				{ID: "c1", Name: "First"},
				{ID: "c2", Name: "Second"},
			}, nil
		},
		ExportLeadsFunc: func(_ context.Context, campaignID string) ([]lemlist.Lead, error) {
			if campaignID == "c1" {
				return nil, context.Canceled
			}
			return nil, nil
		},
		ListActivitiesFunc: noActivities,
	}
	svc := campaign.NewService(client, nil)

	// an ordinary export failure only skips its campaign; a dead context
	// has to fail the whole build
	if _, err := svc.Dashboard(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("svc.Dashboard() error = %v, want: %v", err, context.Canceled)
	}
}

func TestService_Dashboard_SharesInFlightBuild(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	var listings atomic.Int32
	client := &campaign.StubClient{
		ListCampaignsFunc: func(_ context.Context, _ string) ([]lemlist.Campaign, error) {
			listings.Add(1)
			<-gate
			return []lemlist.Campaign{{ID: "c1", Name: "Shared"}}, nil
		},
		ExportLeadsFunc: func(_ context.Context, _ string) ([]lemlist.Lead, error) {
			return nil, nil
		},
		ListActivitiesFunc: noActivities,
	}
	svc := campaign.NewService(client, nil)

	const callers = 4
	var wg sync.WaitGroup
	results := make([][]campaign.Summary, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := svc.Dashboard(context.Background())
			if err != nil {
				t.Errorf("svc.Dashboard() error = %v", err)
				return
			}
			results[i] = rows
		}()
	}

	// give every caller time to join the in-flight build before it finishes
	time.Sleep(100 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got, want := listings.Load(), int32(1); got != want {
		t.Errorf("campaign listings = %d, want: %d", got, want)
	}
	for i := range callers {
		if got, want := len(results[i]), 1; got != want {
			t.Errorf("len(results[%d]) = %d, want: %d", i, got, want)
		}
	}
}

func TestService_Pause(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("campaign not found")
	var gotID string
	client := &campaign.StubClient{
		PauseCampaignFunc: func(_ context.Context, campaignID string) error {
			gotID = campaignID
			return wantErr
		},
	}
	svc := campaign.NewService(client, nil)

	if err := svc.Pause(context.Background(), "c42"); !errors.Is(err, wantErr) {
		t.Errorf("svc.Pause() error = %v, want: %v", err, wantErr)
	}
	if gotID != "c42" {
		t.Errorf("paused campaign = %q, want: %q", gotID, "c42")
	}
}
