package pypi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pyupgradecheck/pkg/constants"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		userAgent:  "test-agent",
	}
}

func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		body, ok := routes[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// TestFetch tests metadata mapping from the JSON API.
//
// It verifies:
//   - requires_python null maps to an absent specifier
//   - classifiers and version are copied
//   - 404 maps to ErrNotFound, other statuses to a plain error
func TestFetch(t *testing.T) {
	t.Parallel()

	server := serve(t, map[string]string{
		"/pypi/requests/json": `{"info":{"name":"requests","version":"2.31.0","requires_python":">=3.7",
			"classifiers":["Programming Language :: Python :: 3","Programming Language :: Python :: 3.12"]}}`,
		"/pypi/oldpkg/json":  `{"info":{"name":"oldpkg","version":"0.1","requires_python":null,"classifiers":[]}}`,
		"/pypi/nofield/json": `{"info":{"name":"nofield","version":"1.0"}}`,
		"/pypi/broken/json":  `{"info":`,
		"/pypi/flaky/json":   "500",
		"/pypi/requests/2.0.0/json": `{"info":{"name":"requests","version":"2.0.0","requires_python":"",
			"classifiers":["Programming Language :: Python :: 2.7"]}}`,
	})
	client := newTestClient(server)
	ctx := context.Background()

	md, err := client.Fetch(ctx, "requests")
	require.NoError(t, err)
	assert.Equal(t, "2.31.0", md.Version)
	assert.Equal(t, ">=3.7", md.SpecifierText())
	assert.Len(t, md.Classifiers, 2)
	assert.Equal(t, constants.OriginPyPI, md.Origin)

	md, err = client.Fetch(ctx, "oldpkg")
	require.NoError(t, err)
	assert.Nil(t, md.Specifier)
	assert.Empty(t, md.Classifiers)

	md, err = client.Fetch(ctx, "nofield")
	require.NoError(t, err)
	assert.Nil(t, md.Specifier)
	assert.Nil(t, md.Classifiers)

	md, err = client.FetchRelease(ctx, "requests", "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", md.Version)
	assert.False(t, md.HasSpecifier())

	_, err = client.Fetch(ctx, "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "package missing")

	_, err = client.FetchRelease(ctx, "requests", "9.9.9")
	assert.True(t, IsNotFound(err))

	_, err = client.Fetch(ctx, "broken")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to parse JSON response")

	_, err = client.Fetch(ctx, "flaky")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

// TestFetchCancelled tests that the request honours context cancellation.
func TestFetchCancelled(t *testing.T) {
	t.Parallel()

	server := serve(t, map[string]string{"/pypi/x/json": `{"info":{}}`})
	client := newTestClient(server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestFetchEscapesName tests that odd names cannot alter the path.
func TestFetchEscapesName(t *testing.T) {
	t.Parallel()

	server := serve(t, map[string]string{"/pypi/a%2Fb/json": `{"info":{"version":"1"}}`})
	md, err := newTestClient(server).Fetch(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "1", md.Version)
}

// TestNewClient tests defaults.
func TestNewClient(t *testing.T) {
	t.Parallel()

	c := NewClient("", 0, "")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, DefaultUserAgent, c.userAgent)

	c = NewClient("https://mirror.example/", 2*time.Second, "ci")
	assert.Equal(t, "https://mirror.example", c.BaseURL())
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "ci", c.userAgent)
}
