// Package sanity is a minimal client for the Sanity content lake HTTP
// API: GROQ queries, single-document reads, and mutations. Only the
// endpoints the bridge uses are covered.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	// BaseURL overrides the derived https://{project}.api.sanity.io
	// host. Used in tests.
	BaseURL string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CanWrite reports whether the client holds an API token. Imports write
// to the CMS and refuse to start without one.
func (c *Client) CanWrite() bool {
	return c.cfg.Token != ""
}

func (c *Client) baseURL() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	return fmt.Sprintf("https://%s.api.sanity.io", c.cfg.ProjectID)
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/v%s%s", c.baseURL(), c.cfg.APIVersion, path)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return errors.Wrap(err, "failed to build cms request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "cms request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return errors.Errorf("cms returned status %d: %s", res.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode cms response")
	}
	return nil
}

// Query runs a GROQ query with the given params and decodes the result
// into out.
func (c *Client) Query(ctx context.Context, groq string, params map[string]any, out any) error {
	q := url.Values{}
	q.Set("query", groq)
	for k, v := range params {
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "failed to encode query param %s", k)
		}
		q.Set("$"+k, string(raw))
	}

	rawURL := c.endpoint("/data/query/"+c.cfg.Dataset) + "?" + q.Encode()

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, rawURL, nil, &envelope); err != nil {
		return err
	}
	if envelope.Result == nil || string(envelope.Result) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(envelope.Result, out), "failed to decode query result")
}

// GetDocument fetches a single document by ID. Returns nil without
// error when the document does not exist.
func (c *Client) GetDocument(ctx context.Context, id string) (map[string]any, error) {
	rawURL := c.endpoint("/data/doc/" + c.cfg.Dataset + "/" + url.PathEscape(id))

	var envelope struct {
		Documents []map[string]any `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, rawURL, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Documents) == 0 {
		return nil, nil
	}
	return envelope.Documents[0], nil
}

// Create submits a create mutation and returns the new document ID.
func (c *Client) Create(ctx context.Context, doc map[string]any) (string, error) {
	payload := map[string]any{
		"mutations": []map[string]any{{"create": doc}},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode create mutation")
	}

	rawURL := c.endpoint("/data/mutate/"+c.cfg.Dataset) + "?returnIds=true"

	var envelope struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(raw), &envelope); err != nil {
		return "", err
	}
	if len(envelope.Results) == 0 {
		return "", errors.New("cms create returned no document id")
	}
	return envelope.Results[0].ID, nil
}

// PatchBuilder accumulates set/unset operations for one document.
type PatchBuilder struct {
	client *Client
	id     string
	set    map[string]any
	unset  []string
}

// Patch starts a patch mutation against the given document.
func (c *Client) Patch(id string) *PatchBuilder {
	return &PatchBuilder{client: c, id: id, set: map[string]any{}}
}

// Set merges fields into the patch.
func (p *PatchBuilder) Set(fields map[string]any) *PatchBuilder {
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

// Unset removes fields from the document.
func (p *PatchBuilder) Unset(fields ...string) *PatchBuilder {
	p.unset = append(p.unset, fields...)
	return p
}

// Commit submits the accumulated patch.
func (p *PatchBuilder) Commit(ctx context.Context) error {
	patch := map[string]any{"id": p.id}
	if len(p.set) > 0 {
		patch["set"] = p.set
	}
	if len(p.unset) > 0 {
		patch["unset"] = p.unset
	}

	payload := map[string]any{
		"mutations": []map[string]any{{"patch": patch}},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode patch mutation")
	}

	rawURL := p.client.endpoint("/data/mutate/" + p.client.cfg.Dataset)
	return p.client.do(ctx, http.MethodPost, rawURL, bytes.NewReader(raw), nil)
}

// Update sets the given fields on an existing document.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) error {
	return c.Patch(id).Set(fields).Commit(ctx)
}

// FindIDByCrossRef looks up the CMS document of the given type that
// carries the relational row ID in its supabaseId field. Returns an
// empty string when no document matches.
func (c *Client) FindIDByCrossRef(ctx context.Context, docType, supabaseID string) (string, error) {
	var id *string
	err := c.Query(ctx,
		`*[_type == $docType && supabaseId == $supabaseId][0]._id`,
		map[string]any{"docType": docType, "supabaseId": supabaseID},
		&id,
	)
	if err != nil {
		return "", err
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

// FindByType returns all published documents of the given type.
func (c *Client) FindByType(ctx context.Context, docType string) ([]map[string]any, error) {
	var docs []map[string]any
	err := c.Query(ctx,
		`*[_type == $docType && !(_id in path("drafts.**"))]`,
		map[string]any{"docType": docType},
		&docs,
	)
	return docs, err
}
