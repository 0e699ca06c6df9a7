// Package google reads events from the Google Calendar REST API.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smallbiznis/mentorhub/internal/calendar/domain"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/calendar/v3"
	ReadOnlyScope  = "https://www.googleapis.com/auth/calendar.readonly"

	maxPages   = 10
	maxResults = 250
)

// Endpoint is Google's OAuth 2.0 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type Provider struct {
	client     *http.Client
	baseURL    string
	calendarID string
}

// New wraps an already authorized client, typically from oauth2.Config.Client.
func New(client *http.Client, baseURL, calendarID string) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Provider{client: client, baseURL: baseURL, calendarID: calendarID}
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type eventItem struct {
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Summary string    `json:"summary"`
	Start   eventTime `json:"start"`
	End     eventTime `json:"end"`
}

type eventsResponse struct {
	Items         []eventItem `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

func (p *Provider) Events(ctx context.Context, r domain.Range) ([]domain.Event, error) {
	if !r.Valid() {
		return nil, domain.ErrInvalidRange
	}

	var events []domain.Event
	pageToken := ""
	for page := 0; page < maxPages; page++ {
		resp, err := p.fetch(ctx, r, pageToken)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			if item.Status == "cancelled" {
				continue
			}
			start, err := parseEventTime(item.Start)
			if err != nil {
				return nil, fmt.Errorf("event %s start: %w", item.ID, err)
			}
			end, err := parseEventTime(item.End)
			if err != nil {
				return nil, fmt.Errorf("event %s end: %w", item.ID, err)
			}
			events = append(events, domain.Event{
				ID:    item.ID,
				Title: item.Summary,
				Start: start,
				End:   end,
			})
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return events, nil
}

func (p *Provider) fetch(ctx context.Context, r domain.Range, pageToken string) (*eventsResponse, error) {
	q := url.Values{}
	q.Set("timeMin", r.Start.UTC().Format(time.RFC3339))
	q.Set("timeMax", r.End.UTC().Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	q.Set("maxResults", fmt.Sprint(maxResults))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", p.baseURL, url.PathEscape(p.calendarID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotConnected, retrieveErr.ErrorCode)
		}
		return nil, fmt.Errorf("calendar request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: google returned %d", domain.ErrNotConnected, res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("calendar request: status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out eventsResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode calendar events: %w", err)
	}
	return &out, nil
}

// parseEventTime handles timed events and all-day events, which only carry a date.
func parseEventTime(t eventTime) (time.Time, error) {
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	if t.Date != "" {
		return time.ParseInLocation("2006-01-02", t.Date, time.UTC)
	}
	return time.Time{}, errors.New("missing time")
}
