package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestIngestFromURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no scheme", "example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), tt.urlStr, DefaultURLOptions())
			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "invalid URL", fetchErr.Message)
		})
	}
}

func TestIngestFromURL_Success(t *testing.T) {
	server := serveHTML(t, http.StatusOK, `<!DOCTYPE html>
<html><body>
<nav>Nav</nav>
<main><h1>Job Title</h1><p>Job description</p></main>
<footer>Footer</footer>
</body></html>`)

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, DefaultURLOptions())
	require.NoError(t, err)

	assert.Equal(t, "Job Title\nJob description", cleanedText)
	require.NotNil(t, metadata)
	assert.Equal(t, server.URL, metadata.URL)
	assert.Equal(t, PlatformUnknown, metadata.Platform)
	assert.False(t, metadata.Rendered)
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := serveHTML(t, http.StatusNotFound, "")

	_, _, err := IngestFromURL(context.Background(), server.URL, DefaultURLOptions())

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestIngestFromURL_BrowserFallback(t *testing.T) {
	server := serveHTML(t, http.StatusOK, `<html><body><div id="root"></div></body></html>`)
	rendered := "<html><body><main><p>" + strings.Repeat("Rendered posting text. ", 30) + "</p></main></body></html>"

	opts := DefaultURLOptions()
	opts.UseBrowser = true
	opts.Render = func(_ context.Context, url string, _ time.Duration) (string, error) {
		assert.Equal(t, server.URL, url)
		return rendered, nil
	}

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, opts)
	require.NoError(t, err)

	assert.True(t, metadata.Rendered)
	assert.Contains(t, cleanedText, "Rendered posting text.")
}

func TestIngestFromURL_BrowserFailureKeepsHTTPContent(t *testing.T) {
	server := serveHTML(t, http.StatusOK, `<html><body><p>Short posting</p></body></html>`)

	opts := DefaultURLOptions()
	opts.UseBrowser = true
	opts.Render = func(context.Context, string, time.Duration) (string, error) {
		return "", errors.New("chrome not installed")
	}

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, opts)
	require.NoError(t, err)

	assert.Equal(t, "Short posting", cleanedText)
	assert.False(t, metadata.Rendered)
}
