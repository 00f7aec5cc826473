// Package lemlist is a rate-limited client for the subset of the lemlist
// REST API the dashboard reads from: campaigns, leads exports, activity
// feeds, team senders and lemwarm controls.
package lemlist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/outstackhq/outstack/internal/config"
)

const (
	defaultPageSize         = 100
	defaultMaxRetries       = 3
	defaultActivityRetries  = 2
	defaultMaxActivityPages = 100
	defaultRetryDelay       = time.Second
	defaultListTimeout      = 60 * time.Second
	defaultLeadsTimeout     = 90 * time.Second
	defaultActionTimeout    = 30 * time.Second
	defaultRateRequests     = 20
	defaultRateWindow       = 2 * time.Second

	maxErrBody = 512
)

var ErrMissingAPIKey = errors.New("lemlist: missing API key")

// APIError is a non-2xx response from the lemlist API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lemlist responded with HTTP %d: %s", e.Status, e.Body)
}

// AsAPIError unwraps err into an *APIError when the failure came from an
// upstream lemlist response rather than transport or decoding.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client talks to the lemlist API. All requests share one token bucket so
// concurrent fetches stay inside the upstream rate limit, and GET requests
// are retried with exponential backoff on rate limits, server errors and
// timeouts.
type Client struct {
	baseURL    string
	authHeader string
	client     *http.Client
	limiter    *rate.Limiter

	pageSize         int
	maxRetries       int
	activityRetries  int
	maxActivityPages int
	retryDelay       time.Duration
	listTimeout      time.Duration
	leadsTimeout     time.Duration
	actionTimeout    time.Duration
}

// New builds a Client from cfg. The API key is used as the password of an
// empty-user Basic auth pair, as lemlist expects.
func New(cfg *config.Lemlist, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg == nil {
		cfg = &config.Lemlist{}
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(":" + apiKey))

	c := &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		authHeader:       "Basic " + credentials,
		client:           &http.Client{},
		pageSize:         cfg.PageSize,
		maxRetries:       cfg.MaxRetries,
		activityRetries:  cfg.ActivityRetries,
		maxActivityPages: cfg.MaxActivityPages,
		retryDelay:       cfg.RetryDelay.Duration,
		listTimeout:      cfg.ListTimeout.Duration,
		leadsTimeout:     cfg.LeadsTimeout.Duration,
		actionTimeout:    cfg.ActionTimeout.Duration,
	}

	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.activityRetries <= 0 {
		c.activityRetries = defaultActivityRetries
	}
	if c.maxActivityPages <= 0 {
		c.maxActivityPages = defaultMaxActivityPages
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.listTimeout <= 0 {
		c.listTimeout = defaultListTimeout
	}
	if c.leadsTimeout <= 0 {
		c.leadsTimeout = defaultLeadsTimeout
	}
	if c.actionTimeout <= 0 {
		c.actionTimeout = defaultActionTimeout
	}

	requests := cfg.RateRequests
	if requests <= 0 {
		requests = defaultRateRequests
	}
	window := cfg.RateWindow.Duration
	if window <= 0 {
		window = defaultRateWindow
	}
	c.limiter = rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)

	return c, nil
}

// ListCampaigns pages through the campaigns listing. An empty status lists
// every campaign. The endpoint answers either a bare array or an object
// with a campaigns field and pagination info, both are handled.
func (c *Client) ListCampaigns(ctx context.Context, status string) ([]Campaign, error) {
	var all []Campaign
	for page := 0; ; page++ {
		query := url.Values{
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(page * c.pageSize)},
		}
		if status != "" {
			query.Set("status", status)
		}

		data, err := c.getRaw(ctx, "/campaigns", query, c.listTimeout, c.maxRetries)
		if err != nil {
			return nil, fmt.Errorf("list campaigns page %d: %w", page, err)
		}

		items, totalPages, err := decodeCampaignsPage(data)
		if err != nil {
			return nil, fmt.Errorf("list campaigns page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		if len(items) < c.pageSize {
			break
		}
		if totalPages > 0 && page >= totalPages-1 {
			break
		}
	}
	return all, nil
}

// GetCampaign fetches one campaign record including its senders.
func (c *Client) GetCampaign(ctx context.Context, campaignID string) (*CampaignDetail, error) {
	var detail CampaignDetail
	if err := c.getJSON(ctx, "/campaigns/"+url.PathEscape(campaignID), nil, c.listTimeout, c.maxRetries, &detail); err != nil {
		return nil, fmt.Errorf("get campaign %s: %w", campaignID, err)
	}
	return &detail, nil
}

// ExportLeads fetches every lead of a campaign regardless of state. The
// export endpoint answers a bare array or an object wrapping the list in a
// leads or data field.
func (c *Client) ExportLeads(ctx context.Context, campaignID string) ([]Lead, error) {
	query := url.Values{
		"state":  {"all"},
		"format": {"json"},
	}
	data, err := c.getRaw(ctx, "/campaigns/"+url.PathEscape(campaignID)+"/export/leads", query, c.leadsTimeout, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("export leads for campaign %s: %w", campaignID, err)
	}

	leads, err := decodeLeads(data)
	if err != nil {
		return nil, fmt.Errorf("export leads for campaign %s: %w", campaignID, err)
	}
	return leads, nil
}

// ListActivities pages through one activity feed of a campaign. When a page
// fails mid-pagination the activities fetched so far are returned together
// with the error, so callers can settle for partial data.
func (c *Client) ListActivities(ctx context.Context, campaignID string, activityType ActivityType) ([]Activity, error) {
	var all []Activity
	for page := 0; page < c.maxActivityPages; page++ {
		query := url.Values{
			"campaignId": {campaignID},
			"type":       {string(activityType)},
			"limit":      {strconv.Itoa(c.pageSize)},
			"offset":     {strconv.Itoa(page * c.pageSize)},
		}

		var batch []Activity
		if err := c.getJSON(ctx, "/activities", query, c.listTimeout, c.activityRetries, &batch); err != nil {
			return all, fmt.Errorf("list %s activities page %d: %w", activityType, page, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			break
		}
	}
	return all, nil
}

// TeamSenders lists the sending identities configured on the team.
func (c *Client) TeamSenders(ctx context.Context) ([]TeamSender, error) {
	var senders []TeamSender
	if err := c.getJSON(ctx, "/team/senders", nil, c.actionTimeout, c.maxRetries, &senders); err != nil {
		return nil, fmt.Errorf("list team senders: %w", err)
	}
	return senders, nil
}

// GetUser fetches a user record including its mailboxes.
func (c *Client) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID), nil, c.actionTimeout, c.maxRetries, &profile); err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	return &profile, nil
}

// PauseCampaign stops further sending on a campaign.
func (c *Client) PauseCampaign(ctx context.Context, campaignID string) error {
	if err := c.postAction(ctx, "/campaigns/"+url.PathEscape(campaignID)+"/pause"); err != nil {
		return fmt.Errorf("pause campaign %s: %w", campaignID, err)
	}
	return nil
}

// StartLemwarm starts the warm-up schedule of a mailbox.
func (c *Client) StartLemwarm(ctx context.Context, mailboxID string) error {
	if err := c.postAction(ctx, "/lemwarm/"+url.PathEscape(mailboxID)+"/start"); err != nil {
		return fmt.Errorf("start lemwarm for mailbox %s: %w", mailboxID, err)
	}
	return nil
}

// StopLemwarm pauses the warm-up schedule of a mailbox.
func (c *Client) StopLemwarm(ctx context.Context, mailboxID string) error {
	if err := c.postAction(ctx, "/lemwarm/"+url.PathEscape(mailboxID)+"/pause"); err != nil {
		return fmt.Errorf("stop lemwarm for mailbox %s: %w", mailboxID, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, timeout time.Duration, retries int, v any) error {
	data, err := c.getRaw(ctx, path, query, timeout, retries)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getRaw performs a GET with retries. Each attempt widens the timeout,
// 429 responses honor the Retry-After header, 5xx responses and transport
// failures back off exponentially and other 4xx responses fail fast.
func (c *Client) getRaw(ctx context.Context, path string, query url.Values, timeout time.Duration, retries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		attemptTimeout := timeout * time.Duration(attempt+1)
		status, header, body, err := c.do(ctx, http.MethodGet, path, query, attemptTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			slog.Warn("lemlist request failed", "path", path, "attempt", attempt+1, "reason", err)
			if err := c.pause(ctx, attempt, retries, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case status == http.StatusTooManyRequests:
			lastErr = &APIError{Status: status, Body: clipBody(body)}
			delay := retryAfter(header)
			if delay <= 0 {
				delay = c.backoff(attempt)
			}
			slog.Warn("lemlist rate limit hit", "path", path, "attempt", attempt+1, "delay", delay)
			if err := c.pause(ctx, attempt, retries, delay); err != nil {
				return nil, err
			}
		case status >= http.StatusInternalServerError:
			lastErr = &APIError{Status: status, Body: clipBody(body)}
			slog.Warn("lemlist server error", "path", path, "attempt", attempt+1, "status", status)
			if err := c.pause(ctx, attempt, retries, c.backoff(attempt)); err != nil {
				return nil, err
			}
		case status >= http.StatusBadRequest:
			return nil, &APIError{Status: status, Body: clipBody(body)}
		default:
			return body, nil
		}
	}
	return nil, fmt.Errorf("giving up on %s after %d attempts: %w", path, retries, lastErr)
}

// do issues a single rate-limited request with its own timeout and drains
// the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, timeout time.Duration) (int, http.Header, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, method, reqURL, http.NoBody)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("new request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("read response of %s %s: %w", method, path, err)
	}

	return res.StatusCode, res.Header, body, nil
}

// postAction fires a single non-retried POST and surfaces any non-2xx
// answer as an APIError so handlers can forward the upstream status.
func (c *Client) postAction(ctx context.Context, path string) error {
	status, _, body, err := c.do(ctx, http.MethodPost, path, nil, c.actionTimeout)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest {
		return &APIError{Status: status, Body: clipBody(body)}
	}
	return nil
}

// pause sleeps for delay unless this was the final attempt or ctx ends first.
func (c *Client) pause(ctx context.Context, attempt, retries int, delay time.Duration) error {
	if attempt >= retries-1 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	return c.retryDelay * time.Duration(1<<attempt)
}

func retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func clipBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrBody {
		return s[:maxErrBody]
	}
	return s
}

func decodeCampaignsPage(data []byte) ([]Campaign, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Campaign
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("decode campaigns: %w", err)
		}
		return items, 0, nil
	}

	var page struct {
		Campaigns  []Campaign `json:"campaigns"`
		Pagination struct {
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, 0, fmt.Errorf("decode campaigns: %w", err)
	}

	totalPages := page.Pagination.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return page.Campaigns, totalPages, nil
}

func decodeLeads(data []byte) ([]Lead, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var leads []Lead
		if err := json.Unmarshal(trimmed, &leads); err != nil {
			return nil, fmt.Errorf("decode leads: %w", err)
		}
		return leads, nil
	}

	var wrapper struct {
		Leads []Lead `json:"leads"`
		Data  []Lead `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	if len(wrapper.Leads) > 0 {
		return wrapper.Leads, nil
	}
	return wrapper.Data, nil
}
