package scan

import (
	"authscan/internal/detect"
	"authscan/internal/feature"
	"authscan/internal/ingest"
	"authscan/internal/parser"
	"authscan/internal/report"
	"errors"
	"io"
	"log"
	"strings"
)

// Scanner runs one pass over an auth log
type Scanner struct {
	parser        parser.Parser
	engine        *detect.Engine
	warnMalformed bool
	logger        *log.Logger
}

// Result holds everything a run produced
type Result struct {
	Summary *report.Summary
	Totals  feature.Totals
}

// NewScanner creates a scanner; a nil logger discards warnings
func NewScanner(threshold int, warnMalformed bool, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scanner{
		parser:        parser.NewAuthLogParser(),
		engine:        detect.NewEngine(threshold),
		warnMalformed: warnMalformed,
		logger:        logger,
	}
}

// ScanFile reads the file at path and returns the run result.
// Missing or unreadable files are fatal; malformed lines are not.
func (s *Scanner) ScanFile(path string) (*Result, error) {
	reader := ingest.NewFileReader(path)
	lines, err := reader.Open()
	if err != nil {
		return nil, err
	}

	counter := s.consume(lines)

	if err := reader.Wait(); err != nil {
		return nil, err
	}
	return s.finish(path, counter), nil
}

// ScanLines runs the same pass over an in-memory sequence of lines
func (s *Scanner) ScanLines(source string, lines []string) *Result {
	ch := make(chan ingest.LogLine)
	go func() {
		defer close(ch)
		for i, l := range lines {
			ch <- ingest.LogLine{Source: source, Num: i + 1, Content: l}
		}
	}()
	return s.finish(source, s.consume(ch))
}

func (s *Scanner) consume(lines <-chan ingest.LogLine) *feature.FailureCounter {
	counter := feature.NewFailureCounter()
	for line := range lines {
		if line.Err != nil {
			counter.AddMalformed()
			s.logger.Printf("[PARSE] %s:%d: skipped: %v", line.Source, line.Num, line.Err)
			continue
		}

		entry, err := s.parser.Parse(line.Content)
		if err != nil {
			counter.AddMalformed()
			if s.warnMalformed && strings.TrimSpace(line.Content) != "" && errors.Is(err, parser.ErrMalformedLine) {
				s.logger.Printf("[PARSE] %s:%d: skipped %v", line.Source, line.Num, err)
			}
			continue
		}
		counter.Add(entry)
	}
	return counter
}

func (s *Scanner) finish(source string, counter *feature.FailureCounter) *Result {
	totals := counter.Totals()
	findings := s.engine.Evaluate(counter.Counts())
	return &Result{
		Summary: report.NewSummary(source, s.engine.Threshold(), totals, len(counter.Users()), findings),
		Totals:  totals,
	}
}
