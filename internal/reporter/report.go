package reporter

import (
	"time"

	"xspect/internal/scanner"
)

// Report is the top-level data structure for a JSON scan report.
type Report struct {
	ScanSummary ScanSummary       `json:"scan_summary"`
	Findings    []scanner.Finding `json:"findings"`
}

// ScanSummary contains metadata and a summary of the scan run.
type ScanSummary struct {
	Target        string `json:"target"`
	Mode          string `json:"mode"` // "crawl" or "target-testing"
	ScanStartTime string `json:"scan_start_time"`
	ScanEndTime   string `json:"scan_end_time"`
	TotalDuration string `json:"total_duration"`
	URLsTested    int    `json:"urls_tested"`
	FindingsTotal int    `json:"total_findings"`
}

// NewReport creates a report for the given target and mode. Findings is
// initialized to an empty slice so it never serializes as null.
func NewReport(target, mode string, startTime time.Time) *Report {
	return &Report{
		ScanSummary: ScanSummary{
			Target:        target,
			Mode:          mode,
			ScanStartTime: startTime.Format(time.RFC3339),
		},
		Findings: make([]scanner.Finding, 0),
	}
}

// Finalize completes the report with the run's results before saving.
func (r *Report) Finalize(endTime, startTime time.Time, findings []scanner.Finding, urlsTested int) {
	r.ScanSummary.ScanEndTime = endTime.Format(time.RFC3339)
	r.ScanSummary.TotalDuration = endTime.Sub(startTime).Round(time.Second).String()
	r.ScanSummary.URLsTested = urlsTested
	r.ScanSummary.FindingsTotal = len(findings)
	r.Findings = append(r.Findings, findings...)
}
