package livingapps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Gateway is the subset of the LivingApps REST API the dashboard needs.
type Gateway interface {
	List(ctx context.Context, appID string) ([]Record, error)
	Create(ctx context.Context, appID string, fields map[string]any) (*Record, error)
	Update(ctx context.Context, appID, recordID string, fields map[string]any) (*Record, error)
	Delete(ctx context.Context, appID, recordID string) error
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// IsNotFound reports whether err was caused by a 404 from the gateway.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient builds a gateway client. An empty token sends unauthenticated
// requests.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = timeout
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type recordPayload struct {
	Fields    map[string]any `json:"fields"`
	CreatedAt *time.Time     `json:"createdat,omitempty"`
	UpdatedAt *time.Time     `json:"updatedat,omitempty"`
}

func (c *Client) List(ctx context.Context, appID string) ([]Record, error) {
	var raw map[string]recordPayload
	if err := c.do(ctx, http.MethodGet, c.recordsURL(appID), nil, &raw); err != nil {
		return nil, errors.Wrapf(err, "list records of app %s", appID)
	}

	records := make([]Record, 0, len(raw))
	for id, p := range raw {
		records = append(records, Record{RecordID: id, Fields: p.Fields, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].RecordID < records[j].RecordID })
	return records, nil
}

func (c *Client) Create(ctx context.Context, appID string, fields map[string]any) (*Record, error) {
	var created struct {
		ID string `json:"id"`
		recordPayload
	}
	if err := c.do(ctx, http.MethodPost, c.recordsURL(appID), recordPayload{Fields: fields}, &created); err != nil {
		return nil, errors.Wrapf(err, "create record in app %s", appID)
	}
	if created.Fields == nil {
		created.Fields = fields
	}
	return &Record{RecordID: created.ID, Fields: created.Fields, CreatedAt: created.CreatedAt, UpdatedAt: created.UpdatedAt}, nil
}

func (c *Client) Update(ctx context.Context, appID, recordID string, fields map[string]any) (*Record, error) {
	var updated recordPayload
	if err := c.do(ctx, http.MethodPatch, c.recordURL(appID, recordID), recordPayload{Fields: fields}, &updated); err != nil {
		return nil, errors.Wrapf(err, "update record %s in app %s", recordID, appID)
	}
	if updated.Fields == nil {
		updated.Fields = fields
	}
	return &Record{RecordID: recordID, Fields: updated.Fields, CreatedAt: updated.CreatedAt, UpdatedAt: updated.UpdatedAt}, nil
}

func (c *Client) Delete(ctx context.Context, appID, recordID string) error {
	if err := c.do(ctx, http.MethodDelete, c.recordURL(appID, recordID), nil, nil); err != nil {
		return errors.Wrapf(err, "delete record %s in app %s", recordID, appID)
	}
	return nil
}

func (c *Client) recordsURL(appID string) string {
	return c.baseURL + "/apps/" + url.PathEscape(appID) + "/records"
}

func (c *Client) recordURL(appID, recordID string) string {
	return c.recordsURL(appID) + "/" + url.PathEscape(recordID)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Method: method, URL: target, Status: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	// Some endpoints answer 2xx with an empty body.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
