// Package pypi fetches package metadata from the PyPI JSON API.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
)

const (
	// DefaultBaseURL is the public PyPI index.
	DefaultBaseURL = "https://pypi.org"

	// DefaultTimeout bounds a single metadata request.
	DefaultTimeout = 5 * time.Second

	// DefaultUserAgent identifies the client to the registry.
	DefaultUserAgent = "pyupgradecheck"

	maxResponseBytes = 32 << 20
)

// ErrNotFound is returned when the registry has no such project or release.
var ErrNotFound = errors.New("not found on registry")

// Client provides methods to read metadata from a PyPI-compatible registry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client. Empty or zero arguments select the defaults.
func NewClient(baseURL string, timeout time.Duration, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// BaseURL returns the registry root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch retrieves metadata of the latest release of a project.
// Returns an error wrapping ErrNotFound on 404.
func (c *Client) Fetch(ctx context.Context, name string) (compat.Metadata, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(name))
	return c.get(ctx, name, endpoint)
}

// FetchRelease retrieves metadata of a specific release.
// Returns an error wrapping ErrNotFound on 404.
func (c *Client) FetchRelease(ctx context.Context, name, version string) (compat.Metadata, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/%s/json", c.baseURL, url.PathEscape(name), url.PathEscape(version))
	return c.get(ctx, name, endpoint)
}

func (c *Client) get(ctx context.Context, name, endpoint string) (compat.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return compat.Metadata{}, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return compat.Metadata{}, errors.Wrapf(err, "failed to fetch metadata for %s", name)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return compat.Metadata{}, errors.Wrapf(ErrNotFound, "package %s", name)
	case resp.StatusCode != http.StatusOK:
		return compat.Metadata{}, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return compat.Metadata{}, errors.Wrap(err, "failed to read response body")
	}

	var doc ProjectResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return compat.Metadata{}, errors.Wrap(err, "failed to parse JSON response")
	}

	md := compat.NewMetadata(doc.Info.Version, doc.Info.RequiresPython, doc.Info.Classifiers)
	md.Origin = constants.OriginPyPI
	return md, nil
}

// IsNotFound reports whether err means the registry has no such project or release.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
