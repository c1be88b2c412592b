package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/civicreach/audience-manager/internal/domain"
)

// APIError is an error response from the server.
type APIError struct {
	Status  int
	Message string
	ShowFor int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is a typed HTTP client for the audience manager API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a new API client for the given base URL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// envelope holds a decoded response body keyed by its envelope fields.
type envelope map[string]json.RawMessage

func (e envelope) unmarshal(key string, v any) error {
	raw, ok := e[key]
	if !ok {
		return fmt.Errorf("response missing %q field", key)
	}
	return json.Unmarshal(raw, v)
}

// do sends a request and decodes the response envelope. A non-2xx status
// is returned as an *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body any) (envelope, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr domain.APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: apiErr.Error,
			ShowFor: apiErr.ShowFor,
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return env, nil
}

func recordsPath(kind domain.Kind) string {
	return "/api/" + kind.Path()
}

// ListRecords fetches the full collection of a record family.
func (c *Client) ListRecords(ctx context.Context, kind domain.Kind) ([]*domain.Record, error) {
	env, err := c.do(ctx, http.MethodGet, recordsPath(kind), nil)
	if err != nil {
		return nil, err
	}
	var records []*domain.Record
	if err := env.unmarshal(kind.Plural(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRecord fetches one record by id.
func (c *Client) GetRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodGet, recordsPath(kind)+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateRecord creates a record; the server fills any missing fields with
// placeholder defaults.
func (c *Client) CreateRecord(ctx context.Context, kind domain.Kind, req domain.CreateRecordRequest) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodPost, recordsPath(kind), req)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecord partial-merges req onto the record with the given id. A
// missing id creates the record server-side rather than failing.
func (c *Client) UpdateRecord(ctx context.Context, kind domain.Kind, id string, req domain.UpdateRecordRequest) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodPut, recordsPath(kind)+"/"+id, req)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecord removes a record and returns the deleted value.
func (c *Client) DeleteRecord(ctx context.Context, kind domain.Kind, id string) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodDelete, recordsPath(kind)+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.DeletedKey(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateFilterGroup adds an empty group to a record and returns the group
// plus the updated record.
func (c *Client) CreateFilterGroup(ctx context.Context, kind domain.Kind, recordID, operator string) (*domain.FilterGroup, *domain.Record, error) {
	env, err := c.do(ctx, http.MethodPost, recordsPath(kind)+"/"+recordID+"/filter-groups",
		domain.FilterGroupRequest{Operator: operator})
	if err != nil {
		return nil, nil, err
	}
	group := &domain.FilterGroup{}
	if err := env.unmarshal("filterGroup", group); err != nil {
		return nil, nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, nil, err
	}
	return group, rec, nil
}

// UpdateFilterGroup changes a group's operator and returns the updated
// record.
func (c *Client) UpdateFilterGroup(ctx context.Context, kind domain.Kind, recordID, groupID, operator string) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodPut, recordsPath(kind)+"/"+recordID+"/filter-groups/"+groupID,
		domain.FilterGroupRequest{Operator: operator})
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteFilterGroup removes a group and returns the updated record.
func (c *Client) DeleteFilterGroup(ctx context.Context, kind domain.Kind, recordID, groupID string) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodDelete, recordsPath(kind)+"/"+recordID+"/filter-groups/"+groupID, nil)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateFilter adds a filter to a record and returns the created filter
// plus the updated record.
func (c *Client) CreateFilter(ctx context.Context, kind domain.Kind, recordID string, req domain.CreateFilterRequest) (*domain.Filter, *domain.Record, error) {
	env, err := c.do(ctx, http.MethodPost, recordsPath(kind)+"/"+recordID+"/filters", req)
	if err != nil {
		return nil, nil, err
	}
	filter := &domain.Filter{}
	if err := env.unmarshal("filter", filter); err != nil {
		return nil, nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, nil, err
	}
	return filter, rec, nil
}

// UpdateFilter partial-merges upd onto a filter and returns the updated
// record.
func (c *Client) UpdateFilter(ctx context.Context, kind domain.Kind, recordID, filterID string, upd domain.FilterUpdate) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodPut, recordsPath(kind)+"/"+recordID+"/filters/"+filterID, upd)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteFilter removes a filter and returns the updated record.
func (c *Client) DeleteFilter(ctx context.Context, kind domain.Kind, recordID, filterID string) (*domain.Record, error) {
	env, err := c.do(ctx, http.MethodDelete, recordsPath(kind)+"/"+recordID+"/filters/"+filterID, nil)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{}
	if err := env.unmarshal(kind.Singular(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListTags fetches the filter tag catalog, optionally narrowed by type.
func (c *Client) ListTags(ctx context.Context, tagType string) ([]*domain.Tag, error) {
	path := "/api/filters"
	if tagType != "" {
		path += "?type=" + url.QueryEscape(tagType)
	}
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var tags []*domain.Tag
	if err := env.unmarshal("filters", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// SubmitOnboarding saves the wizard's form data.
func (c *Client) SubmitOnboarding(ctx context.Context, form domain.OnboardingForm) error {
	_, err := c.do(ctx, http.MethodPost, "/api/onboarding", domain.OnboardingRequest{FormData: form})
	return err
}

// GetOnboarding fetches the last saved submission.
func (c *Client) GetOnboarding(ctx context.Context) (domain.OnboardingForm, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/onboarding", nil)
	if err != nil {
		return nil, err
	}
	var form domain.OnboardingForm
	if err := env.unmarshal("data", &form); err != nil {
		return nil, err
	}
	return form, nil
}
