package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event is the external calendar representation of a published shift.
type Event struct {
	Summary       string `json:"summary"`
	Description   string `json:"description,omitempty"`
	Start         string `json:"start"` // RFC3339
	End           string `json:"end"`   // RFC3339
	AttendeeEmail string `json:"attendee_email,omitempty"`
	Location      string `json:"location,omitempty"`
}

// Client talks to the calendar collaborator. All calls are treated as
// best-effort by callers; failures never roll back roster mutations.
//
//go:generate mockgen -source=calendar.go -destination=mock/calendar_mock.go -package=mock
type Client interface {
	CreateEvent(ctx context.Context, event Event) (string, error)
	UpdateEvent(ctx context.Context, eventID string, event Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient returns a Client against the calendar bridge service.
func NewHTTPClient(baseURL, apiKey string) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("calendar service returned status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *httpClient) CreateEvent(ctx context.Context, event Event) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/events", event, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *httpClient) UpdateEvent(ctx context.Context, eventID string, event Event) error {
	return c.do(ctx, http.MethodPut, "/events/"+eventID, event, nil)
}

func (c *httpClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+eventID, nil, nil)
}

// Noop satisfies Client for deployments without a calendar bridge.
type Noop struct{}

func (Noop) CreateEvent(context.Context, Event) (string, error) { return "", nil }
func (Noop) UpdateEvent(context.Context, string, Event) error   { return nil }
func (Noop) DeleteEvent(context.Context, string) error          { return nil }
