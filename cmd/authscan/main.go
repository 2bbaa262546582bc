package main

import (
	"authscan/internal/audit"
	"authscan/internal/config"
	"authscan/internal/ingest"
	"authscan/internal/metrics"
	"authscan/internal/report"
	"authscan/internal/scan"
	"authscan/internal/types"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	if len(os.Args) > 1 && os.Args[1] == "audit" {
		os.Exit(auditCommand(os.Args[2:], os.Stdout, os.Stderr))
	}
	os.Exit(scanCommand(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintln(out, "Usage: authscan [flags] [log_path] [threshold]")
		fmt.Fprintln(out, "       authscan audit [-file path]")
		fmt.Fprintln(out, "Flags:")
		fs.PrintDefaults()
	}
}

func scanCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("authscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to YAML config file")
	format := fs.String("format", "", "Output format: text or json")
	auditPath := fs.String("audit-log", "", "Append flagged users to this JSON-lines file")
	metricsPath := fs.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	quiet := fs.Bool("quiet", false, "Do not warn about malformed lines")
	fs.Usage = usage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 2 {
		fs.Usage()
		return exitUsage
	}

	logger := log.New(stderr, "", 0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Printf("[CONFIG] %v", err)
		return exitError
	}
	applyOverrides(cfg, fs.Args(), *format, *auditPath, *metricsPath, *quiet, logger)
	if err := config.Validate(cfg); err != nil {
		logger.Printf("[CONFIG] %v", err)
		return exitUsage
	}

	logPath := cfg.Input.AuthLogPath
	threshold := cfg.Threshold()

	scanner := scan.NewScanner(threshold, cfg.ShouldWarnMalformed(), logger)
	res, err := scanner.ScanFile(logPath)
	if err != nil {
		if errors.Is(err, ingest.ErrNotFound) {
			fmt.Fprintf(stderr, "Log file not found: %s\n", logPath)
		} else {
			fmt.Fprintf(stderr, "Failed to read log file: %v\n", err)
		}
		return exitError
	}

	if err := report.Write(stdout, res.Summary, cfg.Output.Format); err != nil {
		logger.Printf("[OUTPUT] Failed to write report: %v", err)
		return exitError
	}

	if cfg.Output.AuditLogPath != "" {
		auditLogger := audit.NewLogger(cfg.Output.AuditLogPath)
		if err := auditLogger.LogFindings(res.Summary.Suspicious, logPath, threshold); err != nil {
			logger.Printf("[AUDIT] Failed to write to audit log: %v", err)
		}
	}

	if cfg.Output.MetricsTextfile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(res.Totals, res.Summary.Suspicious, threshold)
		if err := rec.WriteTextfile(cfg.Output.MetricsTextfile); err != nil {
			logger.Printf("[METRICS] %v", err)
		}
	}

	return exitOK
}

func loadConfig(path string) (*types.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// applyOverrides layers flags and positional arguments over the config.
// An invalid threshold argument falls back to the configured value.
func applyOverrides(cfg *types.Config, positional []string, format, auditPath, metricsPath string, quiet bool, logger *log.Logger) {
	if format != "" {
		cfg.Output.Format = format
	}
	if auditPath != "" {
		cfg.Output.AuditLogPath = auditPath
	}
	if metricsPath != "" {
		cfg.Output.MetricsTextfile = metricsPath
	}
	if quiet {
		warn := false
		cfg.Output.WarnMalformed = &warn
	}

	if len(positional) >= 1 {
		cfg.Input.AuthLogPath = positional[0]
	}
	if len(positional) >= 2 {
		threshold, err := strconv.Atoi(positional[1])
		if err != nil || threshold < 0 {
			logger.Printf("Invalid threshold value: %q. Using default: %d.", positional[1], cfg.Threshold())
			return
		}
		cfg.Detection.FailedLoginThreshold = &threshold
	}
}

func auditCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("file", "audit.log", "Path to audit log")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	f, err := os.Open(*path)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading audit log: %v\n", err)
		return exitError
	}
	defer f.Close()

	events, err := audit.ReadEvents(f)
	for _, evt := range events {
		fmt.Fprintf(stdout, "%s [%s] %s: %s\n", evt.Timestamp.Format("2006-01-02 15:04:05"), evt.Risk, sanitize(evt.Source), sanitize(evt.Explanation))
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error reading audit log: %v\n", err)
		return exitError
	}
	return exitOK
}

// sanitize strips control characters to prevent terminal injection
func sanitize(s string) string {
	var builder strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
