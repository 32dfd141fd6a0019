// Command recovery-report runs the recovery engine over local export files
// and prints the report as JSON. With -url the analysis runs on a server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/catalog"
	"github.com/claude/recovery/internal/ingest/alpha"
	"github.com/claude/recovery/internal/ingest/fitfile"
	"github.com/claude/recovery/internal/ingest/hae"
	"github.com/claude/recovery/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// fileList is a repeatable path flag.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

type options struct {
	hae   string
	alpha string
	fit   fileList
	at    string
	tz    string
	url   string
	key   string
}

func main() {
	var opts options
	flag.StringVar(&opts.hae, "hae", "", "Health Auto Export JSON payload")
	flag.StringVar(&opts.alpha, "alpha", "", "Alpha Progression CSV export")
	flag.Var(&opts.fit, "fit", "FIT activity file (repeatable)")
	flag.StringVar(&opts.at, "at", "", "reference time, RFC 3339 or YYYY-MM-DD (default now)")
	flag.StringVar(&opts.tz, "tz", "Local", "IANA timezone for local days")
	flag.StringVar(&opts.url, "url", "", "analyze on this server instead of locally")
	flag.StringVar(&opts.key, "key", os.Getenv("RECOVERY_AUTH_API_KEY"), "API key for -url")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("recovery-report", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if opts.hae == "" && opts.alpha == "" && len(opts.fit) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: recovery-report [-hae file] [-alpha file] [-fit file ...] [-at time] [-tz zone] [-url server -key key]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(context.Background(), opts, os.Stdout, log); err != nil {
		log.Error("report failed", "error", err)
		os.Exit(1)
	}
}

var errNoSignals = errors.New("input files hold no HRV, sleep or training data")

func run(ctx context.Context, opts options, out io.Writer, log *slog.Logger) error {
	loc, err := time.LoadLocation(opts.tz)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", opts.tz, err)
	}
	ref, err := parseAt(opts.at, loc)
	if err != nil {
		return err
	}

	sig, err := collect(opts, loc)
	if err != nil {
		return err
	}
	if sig.Empty() {
		return errNoSignals
	}
	log.Info("signals loaded",
		"hrv", len(sig.HRV), "resting_hr", len(sig.RestingHR), "sleep", len(sig.Sleep),
		"strength", len(sig.Strength), "cardio", len(sig.Cardio))

	var report analysis.Report
	if opts.url != "" {
		report, err = mcp.NewHTTPClient(opts.url, opts.key).Analyze(ctx, sig, ref)
		if err != nil {
			return err
		}
	} else {
		if ref.IsZero() {
			ref = time.Now().In(loc)
		}
		report = analysis.Build(sig, catalog.NewStatic(catalog.Defaults()), ref, loc)
	}
	if len(report.Unresolved) > 0 {
		log.Warn("exercises not in catalog", "names", strings.Join(report.Unresolved, ", "))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// collect reads every given export into one signal bundle.
func collect(opts options, loc *time.Location) (analysis.Signals, error) {
	var sig analysis.Signals

	if opts.hae != "" {
		f, err := os.Open(opts.hae)
		if err != nil {
			return sig, err
		}
		var payload hae.Payload
		err = json.NewDecoder(f).Decode(&payload)
		f.Close()
		if err != nil {
			return sig, fmt.Errorf("decoding %s: %w", opts.hae, err)
		}
		sig.Merge(hae.Extract(&payload))
	}

	if opts.alpha != "" {
		f, err := os.Open(opts.alpha)
		if err != nil {
			return sig, err
		}
		sessions, err := alpha.Parse(f, loc)
		f.Close()
		if err != nil {
			return sig, fmt.Errorf("parsing %s: %w", opts.alpha, err)
		}
		sig.Strength = append(sig.Strength, alpha.Entries(sessions)...)
	}

	for _, path := range opts.fit {
		f, err := os.Open(path)
		if err != nil {
			return sig, err
		}
		row, err := fitfile.Decode(f)
		f.Close()
		if err != nil {
			return sig, fmt.Errorf("decoding %s: %w", path, err)
		}
		sig.Cardio = append(sig.Cardio, row.Cardio())
	}

	sig.Sort()
	return sig, nil
}

// parseAt reads an RFC 3339 instant or a local date meaning end of that day.
// Empty means now, left to the caller.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -at %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return d.AddDate(0, 0, 1).Add(-time.Second), nil
}
