package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		statusCode  int
		wantContent string
		wantErr     bool
	}{
		{
			name: "article page",
			html: `<!DOCTYPE html>
				<html>
				<head><title>Supervisors vote</title></head>
				<body>
					<nav><a href="/">Home</a></nav>
					<article>
						<h1>Supervisors vote on housing plan</h1>
						<p>The Board of Supervisors voted Tuesday on a plan to add thousands of new homes across the western neighborhoods of the city.</p>
						<p>Residents filled the chamber for hours of public comment before the final vote was taken late in the evening.</p>
					</article>
				</body>
				</html>`,
			statusCode:  http.StatusOK,
			wantContent: "Board of Supervisors voted Tuesday",
		},
		{
			name:       "server error",
			html:       "error",
			statusCode: http.StatusInternalServerError,
			wantErr:    true,
		},
		{
			name:       "not found",
			html:       "not found",
			statusCode: http.StatusNotFound,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.html))
			}))
			defer ts.Close()

			text, err := NewExtractor(5*time.Second, "Newswire/1.0").Extract(context.Background(), ts.URL)
			assert.Equal(t, "Newswire/1.0", gotUA)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, text)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, text, tt.wantContent)
		})
	}
}

func TestExtractor_InvalidURL(t *testing.T) {
	ex := NewExtractor(time.Second, "test")
	for _, u := range []string{"", "not a url", "ftp://example.com/file", "/relative/path", "javascript:alert(1)"} {
		_, err := ex.Extract(context.Background(), u)
		assert.Error(t, err, u)
	}
}

func TestExtractor_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("<html><body><p>late</p></body></html>"))
	}))
	defer ts.Close()

	_, err := NewExtractor(20*time.Millisecond, "test").Extract(context.Background(), ts.URL)
	require.Error(t, err)
}

func TestExtractor_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>text</p></body></html>"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor(time.Second, "test").Extract(ctx, ts.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
