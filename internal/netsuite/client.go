// Package netsuite fetches the two upstream inputs of a run: the open-PO
// saved search (through a Restlet) and the vendor term lookup (through
// SuiteQL).
//
// Calls are made once, in order, without retries. A transport error, a
// non-2xx status or a body that is not the expected JSON aborts the fetch.
package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/ingest"
)

// bodyExcerptLimit caps the response text kept in a StatusError.
const bodyExcerptLimit = 512

// ErrNoVendorIDs is returned when a vendor lookup has nothing to look up.
var ErrNoVendorIDs = errors.New("no vendor IDs to look up")

// Authorizer signs a request before it is sent.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// HeaderAuthorizer sets a pre-computed Authorization header.
type HeaderAuthorizer struct {
	Value string
}

// Authorize implements Authorizer.
func (a HeaderAuthorizer) Authorize(req *http.Request) error {
	if a.Value == "" {
		return errors.New("authorization header value is empty")
	}
	req.Header.Set("Authorization", a.Value)
	return nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client wraps the NetSuite endpoints used by the fetch command.
type Client struct {
	restletURL string
	suiteQLURL string
	auth       Authorizer
	httpClient *http.Client
}

// NewClient constructs a client from explicit endpoints.
func NewClient(restletURL, suiteQLURL string, auth Authorizer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		restletURL: restletURL,
		suiteQLURL: suiteQLURL,
		auth:       auth,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig constructs a client from environment settings.
func NewClientFromConfig(cfg *config.NetSuite) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewClient(cfg.RestletURL, cfg.SuiteQLURL, HeaderAuthorizer{Value: cfg.Authorization}, cfg.Timeout), nil
}

// FetchPurchaseOrders runs the saved search Restlet.
//
// RETURNS:
//   - The raw response body, to be written unchanged as Record_<date>.json.
//   - The decoded source, already checked for structure.
//   - An error on transport failure, non-2xx status or bad structure.
func (c *Client) FetchPurchaseOrders(ctx context.Context) ([]byte, *ingest.POSource, error) {
	body, err := c.do(ctx, http.MethodGet, c.restletURL, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	src, err := ingest.DecodePOSource(bytes.NewReader(body), "saved search response")
	if err != nil {
		return nil, nil, err
	}
	return body, src, nil
}

// FetchVendors looks up the term name of every vendor ID with SuiteQL.
//
// RETURNS:
//   - The raw response body, to be written unchanged as VendorID_<date>.json.
//   - The decoded vendor file.
//   - ErrNoVendorIDs when ids is empty; otherwise transport, status or
//     structure errors.
func (c *Client) FetchVendors(ctx context.Context, ids []string) ([]byte, *ingest.VendorFile, error) {
	if len(ids) == 0 {
		return nil, nil, ErrNoVendorIDs
	}

	payload, err := json.Marshal(map[string]string{"q": BuildVendorQuery(ids)})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode SuiteQL request: %w", err)
	}

	headers := map[string]string{
		"Prefer":       "transient",
		"Content-Type": "application/json",
	}
	body, err := c.do(ctx, http.MethodPost, c.suiteQLURL, payload, headers)
	if err != nil {
		return nil, nil, err
	}
	vendors, err := ingest.DecodeVendors(body, "SuiteQL response")
	if err != nil {
		return nil, nil, err
	}
	return body, vendors, nil
}

// BuildVendorQuery returns the SuiteQL joining vendors to their term name.
// Single quotes in IDs are doubled.
func BuildVendorQuery(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + strings.ReplaceAll(id, "'", "''") + "'"
	}
	return "SELECT v.id, v.entityid, v.terms, v.companyname, t.name AS term_name " +
		"FROM vendor v LEFT JOIN term t ON v.terms = t.id " +
		"WHERE v.entityid IN (" + strings.Join(quoted, ",") + ")"
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.auth != nil {
		if err := c.auth.Authorize(req); err != nil {
			return nil, fmt.Errorf("failed to authorize request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", method, url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: excerpt(body, bodyExcerptLimit)}
	}
	return body, nil
}

// excerpt returns at most limit bytes of body, cut on a rune boundary.
func excerpt(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
