// Package output owns the shared result stream: every vulnerability report,
// from the sequential crawler or from concurrent dispatch workers, funnels
// through one mutex-guarded Sink so lines never interleave.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"xspect/internal/logger"
	"xspect/internal/scanner"
)

var green = color.New(color.FgGreen).SprintFunc()

// Sink prints each vulnerable URL and optionally appends it to a plain-text
// output file, one URL per line. The file is opened and closed on every
// report, so a transient write failure only loses that one line; it never
// truncates and never stops the scan.
type Sink struct {
	mu         sync.Mutex
	out        io.Writer
	outputFile string
	logger     *logger.Logger
	findings   []scanner.Finding
}

// NewSink creates a Sink writing to stdout. outputFile may be empty.
func NewSink(log *logger.Logger, outputFile string) *Sink {
	return &Sink{
		out:        os.Stdout,
		outputFile: outputFile,
		logger:     log,
	}
}

// NewSinkWriter is like NewSink but with an explicit primary stream.
func NewSinkWriter(log *logger.Logger, out io.Writer, outputFile string) *Sink {
	return &Sink{
		out:        out,
		outputFile: outputFile,
		logger:     log,
	}
}

// Report emits one finding. It performs no deduplication: a URL reported
// twice is printed and persisted twice.
func (s *Sink) Report(f scanner.Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.out, green(f.URL))
	s.findings = append(s.findings, f)

	if s.outputFile == "" {
		return
	}
	file, err := os.OpenFile(s.outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		s.logger.Error("Could not open output file %s: %v", s.outputFile, err)
		return
	}
	defer file.Close()
	if _, err := fmt.Fprintln(file, f.URL); err != nil {
		s.logger.Error("Could not write to output file %s: %v", s.outputFile, err)
	}
}

// Findings returns a copy of everything reported so far.
func (s *Sink) Findings() []scanner.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	findings := make([]scanner.Finding, len(s.findings))
	copy(findings, s.findings)
	return findings
}
