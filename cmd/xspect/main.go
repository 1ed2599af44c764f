package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"xspect/internal/config"
	"xspect/internal/crawler"
	"xspect/internal/httpclient"
	"xspect/internal/logger"
	"xspect/internal/output"
	"xspect/internal/reporter"
	"xspect/internal/scanner"
)

const banner = `
__  __ ___ _ __   ___  ___| |_
\ \/ // __| '_ \ / _ \/ __| __|
 >  < \__ \ |_) |  __/ (__| |_
/_/\_\|___/ .__/ \___|\___|\__|
          |_|
`

func printBanner() {
	color.New(color.FgRed).Fprint(os.Stderr, banner)
	color.New(color.FgCyan).Fprintln(os.Stderr, "Reflected XSS Scanner")
	color.New(color.FgGreen).Fprintln(os.Stderr, "Crawling Mode:        -u <url> -d <depth>")
	color.New(color.FgGreen).Fprintln(os.Stderr, "Target Testing Mode:  -f <urls file>")
	fmt.Fprintln(os.Stderr, strings.Repeat("=", 50))
}

// main is the entry point of the xspect scanner.
func main() {
	log := logger.NewLogger(logger.INFO)
	startTime := time.Now()

	// config.yaml is optional; flags override whatever it provides.
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Error("Failed to load config.yaml: %v", err)
		os.Exit(1)
	}

	var targetURLStr, urlsFile, userAgent, outputFile, jsonOutputFile string
	var threads, timeout, maxDepth, maxVisits, maxRetries, delay int
	var verbose bool

	flag.StringVar(&targetURLStr, "u", cfg.Target, "Seed URL for crawling mode")
	flag.StringVar(&urlsFile, "f", cfg.URLsFile, "File containing URLs for target testing mode")
	flag.IntVar(&maxDepth, "d", cfg.MaxDepth, "Maximum crawling depth (crawling mode)")
	flag.IntVar(&threads, "t", cfg.Threads, "Number of concurrent workers (target testing mode)")
	flag.IntVar(&timeout, "timeout", cfg.Timeout, "Request timeout in seconds")
	flag.StringVar(&userAgent, "a", cfg.UserAgent, "Custom User-Agent string")
	flag.StringVar(&outputFile, "o", cfg.Output.File, "Output file for vulnerable URLs (one per line, appended)")
	flag.StringVar(&jsonOutputFile, "output-json", cfg.Output.JSONFile, "Path to save the scan report in JSON format")
	flag.IntVar(&maxVisits, "max-visits", cfg.MaxVisits, "Total-visit cap for a crawl (0 = unlimited)")
	flag.IntVar(&maxRetries, "r", cfg.MaxRetries, "Maximum number of retries for failed requests")
	flag.IntVar(&delay, "delay", cfg.Delay, "Delay between retries in milliseconds (ms)")
	flag.BoolVar(&verbose, "v", cfg.Output.Verbose, "Enable verbose output (DEBUG level)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "xspect probes web applications for reflected cross-site-scripting by injecting\nknown payloads into URL query parameters and checking for unescaped reflection.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "MODES (exactly one):\n")
		fmt.Fprintf(os.Stderr, "  -u string\n    \tSeed URL for crawling mode (e.g., \"http://example.com\")\n")
		fmt.Fprintf(os.Stderr, "  -f string\n    \tFile containing URLs for target testing mode, one per line\n")
		fmt.Fprintf(os.Stderr, "\nCRAWLING & PERFORMANCE:\n")
		fmt.Fprintf(os.Stderr, "  -d int\n    \tMaximum crawling depth (default: %d)\n", cfg.MaxDepth)
		fmt.Fprintf(os.Stderr, "  -t int\n    \tNumber of concurrent workers (default: %d)\n", cfg.Threads)
		fmt.Fprintf(os.Stderr, "  -timeout int\n    \tRequest timeout in seconds (default: %d)\n", cfg.Timeout)
		fmt.Fprintf(os.Stderr, "  -max-visits int\n    \tTotal-visit cap for a crawl, 0 = unlimited (default: %d)\n", cfg.MaxVisits)
		fmt.Fprintf(os.Stderr, "  -r int\n    \tMaximum number of retries for failed requests (default: %d)\n", cfg.MaxRetries)
		fmt.Fprintf(os.Stderr, "  -delay int\n    \tDelay between retries in milliseconds (default: %d)\n", cfg.Delay)
		fmt.Fprintf(os.Stderr, "\nOUTPUT & REPORTING:\n")
		fmt.Fprintf(os.Stderr, "  -a string\n    \tCustom User-Agent string (default: %q)\n", cfg.UserAgent)
		fmt.Fprintf(os.Stderr, "  -o string\n    \tOutput file for vulnerable URLs (one per line, appended)\n")
		fmt.Fprintf(os.Stderr, "  -output-json string\n    \tPath to save the scan report in JSON format\n")
		fmt.Fprintf(os.Stderr, "  -v\n    \tEnable verbose output (DEBUG level)\n")
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  # Crawl a site two levels deep and test every discovered URL\n")
		fmt.Fprintf(os.Stderr, "  xspect -u http://example.com -d 2\n\n")
		fmt.Fprintf(os.Stderr, "  # Test a prepared URL list with 15 workers and save hits\n")
		fmt.Fprintf(os.Stderr, "  xspect -f urls.txt -t 15 -o vulnerable.txt\n\n")
	}

	flag.Parse()

	if verbose {
		log.SetMinLevel(logger.DEBUG)
		log.Info("Debug logging enabled (-v).")
	}

	printBanner()

	// Mode validation: surfaced before any scanning begins.
	if targetURLStr == "" && urlsFile == "" {
		log.Error("A target is required: -u <url> for crawling mode or -f <file> for target testing mode.")
		flag.Usage()
		os.Exit(1)
	}
	if targetURLStr != "" && urlsFile != "" {
		log.Error("Flags -u and -f are mutually exclusive.")
		os.Exit(1)
	}
	if maxDepth < 0 {
		log.Error("Crawling depth must be a non-negative integer.")
		os.Exit(1)
	}
	if threads <= 0 || timeout <= 0 {
		log.Error("Thread count and timeout must be positive integers.")
		os.Exit(1)
	}

	clientOpts := httpclient.ClientOptions{
		Timeout:         time.Duration(timeout) * time.Second,
		UserAgent:       userAgent,
		FollowRedirects: true,
		MaxRetries:      maxRetries,
		RequestDelay:    time.Duration(delay) * time.Millisecond,
	}
	httpClient := httpclient.NewClient(log, clientOpts)

	prober := scanner.NewProber(httpClient, log)
	sink := output.NewSink(log, outputFile)

	var mode, target string
	var urlsTested int

	if urlsFile != "" {
		// Target testing mode: test the supplied list in parallel, no discovery.
		mode, target = "target-testing", urlsFile
		urls, err := readURLList(urlsFile)
		if err != nil {
			log.Error("Error reading file %s: %v", urlsFile, err)
			os.Exit(1)
		}
		if len(urls) == 0 {
			log.Error("URL list %s is empty.", urlsFile)
			os.Exit(1)
		}
		log.Info("Testing %d URLs in target testing mode with %d workers...", len(urls), threads)
		dispatcher := scanner.NewDispatcher(prober, sink, log, threads)
		dispatcher.Run(urls)
		urlsTested = len(urls)
	} else {
		// Crawling mode: breadth-first discovery from the seed.
		mode, target = "crawl", targetURLStr
		parsed, err := url.Parse(targetURLStr)
		if err != nil || !parsed.IsAbs() {
			log.Error("Invalid target URL format.")
			os.Exit(1)
		}
		log.Info("Crawling %s with depth %d...", targetURLStr, maxDepth)
		c := crawler.NewCrawler(httpClient, prober, sink, log, maxVisits)
		visited, err := c.Crawl(targetURLStr, maxDepth)
		if err != nil {
			log.Error("Crawl failed: %v", err)
			os.Exit(1)
		}
		urlsTested = visited
	}

	findings := sink.Findings()
	log.Info("Scan completed: %d URL(s) tested, %d vulnerable.", urlsTested, len(findings))

	if jsonOutputFile != "" {
		reportData := reporter.NewReport(target, mode, startTime)
		reportData.Finalize(time.Now(), startTime, findings, urlsTested)
		if err := reporter.WriteJSONReport(reportData, jsonOutputFile); err != nil {
			log.Error("Failed to write JSON report: %v", err)
		} else {
			log.Success("JSON report saved to %s", jsonOutputFile)
		}
	}
}

// readURLList reads one URL per line, skipping blank lines.
func readURLList(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	fileScanner := bufio.NewScanner(file)
	for fileScanner.Scan() {
		line := strings.TrimSpace(fileScanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, fileScanner.Err()
}
