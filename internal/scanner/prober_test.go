package scanner

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xspect/internal/httpclient"
	"xspect/internal/logger"
	"xspect/internal/payloads"
)

func newTestProber(t *testing.T) *Prober {
	t.Helper()
	log := logger.NewLogger(logger.ERROR)
	client := httpclient.NewClient(log, httpclient.ClientOptions{
		Timeout: 5 * time.Second,
	})
	return NewProber(client, log)
}

// countingHandler wraps a handler and counts the requests it served.
func countingHandler(counter *int64, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(counter, 1)
		next(w, r)
	}
}

func TestProberNoQueryMakesNoRequests(t *testing.T) {
	var requests int64
	server := httptest.NewServer(countingHandler(&requests, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "should never be hit")
	}))
	defer server.Close()

	prober := newTestProber(t)

	finding := prober.Test(server.URL + "/page")
	assert.Nil(t, finding, "a URL without a query string is never vulnerable")
	assert.Equal(t, int64(0), atomic.LoadInt64(&requests), "no-query URLs must cost zero HTTP requests")
}

func TestProberInvalidURL(t *testing.T) {
	prober := newTestProber(t)
	assert.Nil(t, prober.Test("://not a url"))
}

func TestProberDetectsRawReflection(t *testing.T) {
	var requests int64
	server := httptest.NewServer(countingHandler(&requests, func(w http.ResponseWriter, r *http.Request) {
		// Vulnerable: echoes the parameter back without escaping.
		fmt.Fprintf(w, "<html><body>You searched for: %s</body></html>", r.URL.Query().Get("q"))
	}))
	defer server.Close()

	prober := newTestProber(t)

	finding := prober.Test(server.URL + "/search?q=test")
	require.NotNil(t, finding)
	assert.Equal(t, "q", finding.Parameter)
	assert.Equal(t, payloads.XSSVectors[0], finding.Payload, "vectors are tried in order, so the first one wins")
	assert.Contains(t, finding.URL, server.URL, "the reported URL is the substituted test URL")
	assert.NotEqual(t, server.URL+"/search?q=test", finding.URL)
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests), "first hit short-circuits the remaining vectors")
}

func TestProberEscapedReflectionNotFlagged(t *testing.T) {
	var requests int64
	server := httptest.NewServer(countingHandler(&requests, func(w http.ResponseWriter, r *http.Request) {
		// Correctly escaped output does not reflect the vector verbatim.
		fmt.Fprintf(w, "<html><body>%s</body></html>", html.EscapeString(r.URL.Query().Get("q")))
	}))
	defer server.Close()

	prober := newTestProber(t)

	finding := prober.Test(server.URL + "/search?q=test")
	assert.Nil(t, finding)
	assert.Equal(t, int64(len(payloads.XSSVectors)), atomic.LoadInt64(&requests),
		"a negative pass tries every vector for the single parameter")
}

func TestProberTestsEveryParameter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only the "vuln" parameter is reflected unescaped.
		fmt.Fprintf(w, "<html>%s %s</html>",
			html.EscapeString(r.URL.Query().Get("safe")),
			r.URL.Query().Get("vuln"))
	}))
	defer server.Close()

	prober := newTestProber(t)

	finding := prober.Test(server.URL + "/page?safe=1&vuln=2")
	require.NotNil(t, finding)
	assert.Equal(t, "vuln", finding.Parameter)
}

func TestProberSwallowsRequestFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // every probe now fails at the transport level

	prober := newTestProber(t)

	finding := prober.Test(server.URL + "/page?q=1")
	assert.Nil(t, finding, "connection failures are treated as not vulnerable")
}

func TestProberNoResultCaching(t *testing.T) {
	var requests int64
	server := httptest.NewServer(countingHandler(&requests, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Query().Get("q"))
	}))
	defer server.Close()

	prober := newTestProber(t)
	target := server.URL + "/?q=x"

	require.NotNil(t, prober.Test(target))
	require.NotNil(t, prober.Test(target))
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests), "the same URL probed twice is requested twice")
}

func TestInjectPayloadPreservesOtherParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// Reflect the injected parameter only when the sibling survived intact.
		if q.Get("keep") == "original" {
			fmt.Fprint(w, q.Get("q"))
		}
	}))
	defer server.Close()

	finding := newTestProber(t).Test(server.URL + "/?q=x&keep=original")
	require.NotNil(t, finding)
	assert.Equal(t, "q", finding.Parameter)
}
