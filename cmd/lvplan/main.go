// Command lvplan runs the planning scenarios in one batch: supply-chain cost
// minimisation, the shortest round trip over the configured towns, and the
// portfolio allocation models for every configured currency.
//
// Settings come from .env (or the file named by LVPLAN_ENV_FILE), LVPLAN_*
// variables and finally flags. Text reports go to stdout, allocation CSVs to
// the output store (a directory or s3://bucket/prefix), and, when a SQL driver
// is configured, scenario outcomes and allocations to the database.
//
// Exit status: 0 when every scenario succeeded, 1 when any failed, 2 for bad
// flags or configuration.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/katalvlaran/lvplan/internal/config"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	boot := slog.New(slog.NewTextHandler(stderr, nil))
	var envFiles []string
	if f := os.Getenv("LVPLAN_ENV_FILE"); f != "" {
		envFiles = append(envFiles, f)
	}
	cfg := config.Load(boot, envFiles...)

	fs := flag.NewFlagSet("lvplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bindFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return 2
	}

	a, err := newApp(ctx, cfg, logger, stdout)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return 2
	}
	defer a.close()

	if failed := a.run(ctx); failed > 0 {
		logger.Error("run finished with failures", "run", cfg.RunID, "failed", failed)
		return 1
	}
	logger.Info("run finished", "run", cfg.RunID)
	return 0
}

// bindFlags registers one flag per setting, defaulting to the loaded value.
func bindFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory of <sheet>.csv inputs")
	fs.StringVar(&cfg.SupplyBook, "supply-workbook", cfg.SupplyBook, "supply chain .xlsx (path or s3:// URL)")
	fs.StringVar(&cfg.RoutingBook, "routing-workbook", cfg.RoutingBook, "routing .xlsx (path or s3:// URL)")
	fs.StringVar(&cfg.PortfolioBook, "portfolio-workbook", cfg.PortfolioBook, "portfolio .xlsx (path or s3:// URL)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output directory or s3://bucket/prefix")
	fs.StringVar(&cfg.RunID, "run", cfg.RunID, "run identifier stored with SQL rows")
	fs.Func("scenarios", "comma-separated scenarios (supplychain,routing,portfolio)", func(s string) error {
		cfg.Scenarios = config.SplitList(s)
		return nil
	})
	fs.Func("currencies", "comma-separated portfolio currencies", func(s string) error {
		cfg.Currencies = config.SplitList(s)
		return nil
	})

	fs.StringVar(&cfg.Engine.Name, "engine", cfg.Engine.Name, "solver engine: simplex or highs")
	fs.DurationVar(&cfg.Engine.TimeLimit, "time-limit", cfg.Engine.TimeLimit, "per-solve time budget (0 = none)")
	fs.IntVar(&cfg.Engine.MaxNodes, "max-nodes", cfg.Engine.MaxNodes, "branch-and-bound node limit (0 = none)")
	fs.Float64Var(&cfg.Engine.Gap, "gap", cfg.Engine.Gap, "relative MIP gap")
	fs.BoolVar(&cfg.Engine.Integral, "supply-integral", cfg.Engine.Integral, "solve the supply chain with integer quantities")

	fs.StringVar(&cfg.Routing.Strategy, "strategy", cfg.Routing.Strategy, "subtour strategy: auto, enumerate or lazy")
	fs.IntVar(&cfg.Routing.MaxEnumerate, "max-enumerate", cfg.Routing.MaxEnumerate, "largest town count for enumerated subtour rows")
	fs.IntVar(&cfg.Routing.MaxRounds, "max-rounds", cfg.Routing.MaxRounds, "lazy cut rounds")
	fs.StringVar(&cfg.Routing.Anchor, "anchor", cfg.Routing.Anchor, "first and last town of the tour")
	fs.Func("towns", "comma-separated towns (default: built-in list)", func(s string) error {
		cfg.Routing.Towns = config.SplitList(s)
		return nil
	})
	fs.BoolVar(&cfg.Routing.CrossCheck, "crosscheck", cfg.Routing.CrossCheck, "verify the tour with exact dynamic programming")

	fs.Float64Var(&cfg.Portfolio.MaxWeight, "max-weight", cfg.Portfolio.MaxWeight, "cap on any single position")
	fs.Float64Var(&cfg.Portfolio.MinReturn, "min-return", cfg.Portfolio.MinReturn, "mean monthly return floor of the min-risk model")

	fs.StringVar(&cfg.SQL.Driver, "sql-driver", cfg.SQL.Driver, "sqlite or postgres; empty disables the SQL sink")
	fs.StringVar(&cfg.SQL.DSN, "sql-dsn", cfg.SQL.DSN, "SQL data source name")
	fs.StringVar(&cfg.MetricsFile, "metrics", cfg.MetricsFile, "prometheus textfile to write at exit")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}
