package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html>
<head><title>Senior Backend Engineer - Acme</title></head>
<body>
<nav>Home | Jobs</nav>
<script>trackPageView();</script>
<h1>Senior Backend Engineer</h1>
<p>We are looking for an engineer with Go and Postgres experience.</p>
<footer>© Acme</footer>
</body>
</html>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	posting, err := NewFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer - Acme", posting.Title)
	assert.Contains(t, posting.Body, "Go and Postgres experience")
	// Script, nav, and footer content is stripped.
	assert.NotContains(t, posting.Body, "trackPageView")
	assert.NotContains(t, posting.Body, "Home | Jobs")
}

func TestFetchRejectsBadURLs(t *testing.T) {
	f := NewFetcher()
	for _, u := range []string{"", "ftp://example.com/job", "file:///etc/passwd", "::bad::"} {
		_, err := f.Fetch(context.Background(), u)
		assert.Error(t, err, "url: %s", u)
	}
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
