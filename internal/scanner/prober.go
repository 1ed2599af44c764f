package scanner

import (
	"io"
	"net/url"
	"strings"

	"xspect/internal/httpclient"
	"xspect/internal/logger"
	"xspect/internal/payloads"
)

// Finding describes one reflected-XSS hit. URL is the payload-substituted
// test URL that triggered the reflection.
type Finding struct {
	URL       string `json:"url"`
	Parameter string `json:"parameter"`
	Payload   string `json:"payload"`
}

// Tester is the probe contract shared by the crawler and the dispatcher.
// A nil Finding means the URL is not vulnerable.
type Tester interface {
	Test(rawURL string) *Finding
}

// Prober tests a single URL for reflected XSS by substituting each vector of
// the payload set into each query parameter and checking whether the vector
// comes back verbatim in the response body.
//
// The reflection oracle is a plain case-sensitive substring check. It does not
// distinguish reflection inside a comment or inert context from an exploitable
// one, which is a known source of false positives and a deliberate design
// limitation of this tool.
type Prober struct {
	client  *httpclient.Client
	logger  *logger.Logger
	vectors []string
}

// NewProber creates a Prober using the default XSS vector set.
func NewProber(client *httpclient.Client, log *logger.Logger) *Prober {
	return &Prober{
		client:  client,
		logger:  log,
		vectors: payloads.XSSVectors,
	}
}

// Test probes rawURL and returns the first Finding, or nil if no parameter
// reflects any vector. A URL without a query string is never vulnerable and
// costs zero HTTP requests. Per-request failures are skipped: one refused or
// timed-out probe never aborts the rest of the pass. Results are not cached;
// testing the same URL twice probes twice.
func (p *Prober) Test(rawURL string) *Finding {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return nil
	}

	params := parsed.Query()
	for name := range params {
		for _, vector := range p.vectors {
			testURL := injectPayload(parsed, params, name, vector)

			resp, err := p.client.Get(testURL)
			if err != nil {
				p.logger.Debug("Probe request failed for %s: %v", testURL, err)
				continue
			}
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				continue
			}

			if strings.Contains(string(body), vector) {
				p.logger.Debug("Parameter '%s' reflects vector %q", name, vector)
				// First hit wins: stop testing this parameter and the rest.
				return &Finding{URL: testURL, Parameter: name, Payload: vector}
			}
		}
	}
	return nil
}

// injectPayload rebuilds the URL with a single parameter replaced by the raw
// vector. Encoding is left entirely to url.Values; the vector itself is never
// pre-escaped.
func injectPayload(parsed *url.URL, params url.Values, name, vector string) string {
	modified := url.Values{}
	for k, vs := range params {
		modified[k] = vs
	}
	modified.Set(name, vector)

	injected := *parsed
	injected.RawQuery = modified.Encode()
	return injected.String()
}
