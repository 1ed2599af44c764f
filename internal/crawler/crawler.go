// Package crawler implements same-origin breadth-first discovery. The crawl
// loop is deliberately single-threaded: discovery and testing interleave on
// one control path, so the visited set and work queue need no locking.
package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"xspect/internal/httpclient"
	"xspect/internal/logger"
	"xspect/internal/scanner"
)

// crawlJob is one unit of pending work in the BFS queue.
type crawlJob struct {
	url   string
	depth int
}

// Crawler walks a site breadth-first from a seed URL, probing every visited
// URL and feeding same-host links back into its own work queue. All crawl
// state is per-run: two Crawl calls on the same Crawler never share a
// visited set.
type Crawler struct {
	httpClient *httpclient.Client
	tester     scanner.Tester
	sink       scanner.Reporter
	logger     *logger.Logger
	maxVisits  int
}

// NewCrawler creates a Crawler. maxVisits caps the total number of URLs
// dequeued per run as a guard against pathological link graphs
// (query-string-varying self-links and the like); 0 disables the cap.
func NewCrawler(httpClient *httpclient.Client, tester scanner.Tester, sink scanner.Reporter, log *logger.Logger, maxVisits int) *Crawler {
	return &Crawler{
		httpClient: httpClient,
		tester:     tester,
		sink:       sink,
		logger:     log,
		maxVisits:  maxVisits,
	}
}

// Crawl runs a breadth-first crawl from startURL down to maxDepth and probes
// every visited URL. The seed is depth 0 and always tested; links are only
// discovered while the current depth is below maxDepth, and the depth check
// at dequeue time is the authoritative one. The crawl ends when the queue
// drains or the visit cap is reached. It returns the number of URLs visited.
func (c *Crawler) Crawl(startURL string, maxDepth int) (int, error) {
	origin, err := url.Parse(startURL)
	if err != nil {
		return 0, err
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	visited := make(map[string]bool)
	queue := []crawlJob{{url: startURL, depth: 0}}

	for len(queue) > 0 {
		job := queue[0]
		queue = queue[1:]

		if visited[job.url] || job.depth > maxDepth {
			continue
		}
		if c.maxVisits > 0 && len(visited) >= c.maxVisits {
			c.logger.Warn("Crawler: visit cap of %d reached, stopping crawl.", c.maxVisits)
			break
		}
		// The sole mutation establishing the visited invariant: mark before
		// any network I/O so the URL is processed at most once.
		visited[job.url] = true

		c.logger.Debug("Crawling: %s (depth %d)", job.url, job.depth)
		if finding := c.tester.Test(job.url); finding != nil {
			c.sink.Report(*finding)
		}

		if job.depth >= maxDepth {
			continue
		}
		links, err := c.fetchLinks(job.url)
		if err != nil {
			// Discovery stops at this node; its probe result above stands.
			c.logger.Debug("Crawler: discovery failed for %s: %v", job.url, err)
			continue
		}
		for _, link := range links {
			if sameHost(link, origin.Host) && !visited[link] {
				queue = append(queue, crawlJob{url: link, depth: job.depth + 1})
			}
		}
	}
	return len(visited), nil
}

// fetchLinks retrieves a page and returns every hyperlink target resolved
// against the page URL, fragments stripped. Only 2xx responses with a
// declared HTML content type are parsed.
func (c *Crawler) fetchLinks(pageURL string) ([]string, error) {
	resp, err := c.httpClient.Get(pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// resolveURL resolves href against base and strips the fragment.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// sameHost reports whether rawURL points at the given host. The origin
// filter matches on host only, the way the original network-origin check
// behaves.
func sameHost(rawURL, host string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host == host
}
