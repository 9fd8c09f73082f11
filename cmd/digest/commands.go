package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"

	"MarketDigest/internal/changes"
	"MarketDigest/internal/collector"
	"MarketDigest/internal/config"
	"MarketDigest/internal/logger"
	"MarketDigest/internal/model"
	"MarketDigest/internal/recorder"
)

var commands = []subcommands.Command{
	&changesCmd{kind: collector.KindFX},
	&changesCmd{kind: collector.KindMarket},
	&refreshCmd{},
	&historyCmd{},
}

// load reads the config and builds a collector from it. Logs go to stderr so
// stdout carries only command output.
func load() (*config.Config, *collector.Collector, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Environment); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	col, err := collector.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, col, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type changesCmd struct {
	kind   string
	anchor string
	mode   string
}

func (c *changesCmd) Name() string { return c.kind }
func (c *changesCmd) Synopsis() string {
	return fmt.Sprintf("print the %s change record as JSON", c.kind)
}
func (c *changesCmd) Usage() string {
	return fmt.Sprintf(`digest %s [-anchor most-recent|most-complete] [-mode entries|calendar]

  Loads the stored %s series and prints its change record. The record always
  carries "status"; on failure it holds "error" instead of records.
`, c.kind, c.kind)
}

func (c *changesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.anchor, "anchor", "", "anchor policy, overriding the config")
	f.StringVar(&c.mode, "mode", "", "window mode, overriding the config")
}

func (c *changesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, col, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := c.override(cfg, col); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var res model.Result
	if c.kind == collector.KindFX {
		res = col.FXChanges()
	} else {
		res = col.MarketChanges()
	}
	if err := printJSON(os.Stdout, res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !res.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *changesCmd) override(cfg *config.Config, col *collector.Collector) error {
	if c.mode != "" {
		mode := changes.WindowMode(c.mode)
		if mode != changes.ModeEntries && mode != changes.ModeCalendar {
			return fmt.Errorf("unknown window mode %q", c.mode)
		}
		col.FXConf.Mode = mode
		col.MarketConf.Mode = mode
	}
	if c.anchor != "" {
		sel, ok := changes.SelectorByName(c.anchor, cfg.Market.AnchorLookback)
		if !ok {
			return fmt.Errorf("unknown anchor policy %q", c.anchor)
		}
		col.FXConf.Anchor = sel
		col.MarketConf.Anchor = sel
	}
	return nil
}

type refreshCmd struct {
	fxOnly     bool
	marketOnly bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch fresh FX and market data into the series files" }
func (*refreshCmd) Usage() string {
	return `digest refresh [-fx] [-market]

  Fetches today's exchange rates and recent daily closes and merges them into
  the stored series. Without flags both series are refreshed.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fxOnly, "fx", false, "refresh only the FX series")
	f.BoolVar(&c.marketOnly, "market", false, "refresh only the market series")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, col, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	both := !c.fxOnly && !c.marketOnly
	status := subcommands.ExitSuccess
	if both || c.fxOnly {
		if err := col.RefreshFX(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
		} else {
			fmt.Printf("fx: %d pairs stored in %s\n", len(cfg.FX.Quotes), cfg.FX.SeriesFile)
		}
	}
	if both || c.marketOnly {
		if err := col.RefreshMarket(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
		} else {
			fmt.Printf("market: %d tickers merged into %s\n", len(cfg.Market.Instruments), cfg.Market.SeriesFile)
		}
	}
	return status
}

type historyCmd struct {
	kind  string
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recorded digest runs" }
func (*historyCmd) Usage() string {
	return `digest history [-kind fx|market] [-n 10]

  Lists the most recent digest runs stored in the SQLite database.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "only show runs of this kind")
	f.IntVar(&c.limit, "n", 10, "number of runs to show")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rec.Close()

	runs, err := rec.RecentRuns(c.kind, c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return subcommands.ExitSuccess
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-6s  %-7s  %s", humanize.Time(r.Timestamp), r.Kind, r.Status, r.ID)
		if r.Anchor != "" {
			line += fmt.Sprintf("  anchor=%s instruments=%d", r.Anchor, r.Instruments)
		}
		if r.Error != "" {
			line += "  error=" + r.Error
		}
		fmt.Println(line)
	}
	return subcommands.ExitSuccess
}
