package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/katalvlaran/lvplan/internal/blob"
	"github.com/katalvlaran/lvplan/internal/config"
	"github.com/katalvlaran/lvplan/internal/metrics"
	"github.com/katalvlaran/lvplan/internal/store"
	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/portfolio"
	"github.com/katalvlaran/lvplan/routing"
	"github.com/katalvlaran/lvplan/supplychain"
	"github.com/katalvlaran/lvplan/table"
)

// app holds the resolved sinks and the instrumented engine of one run.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer

	eng lp.Engine
	rec *metrics.Recorder
	out blob.Store
	db  *store.Store // nil when the SQL sink is disabled
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) (*app, error) {
	base, err := newEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	out, err := blob.Open(ctx, cfg.Output, s3Config(cfg.S3))
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger, stdout: stdout, rec: metrics.New(), out: out}
	a.eng = a.rec.Wrap(base)
	if cfg.SQL.Driver != "" {
		if a.db, err = store.Open(ctx, cfg.SQL.Driver, cfg.SQL.DSN); err != nil {
			return nil, err
		}
	}
	logger.Debug("run configured", "run", cfg.RunID, "engine", cfg.Engine.Name, "output", cfg.Output,
		"scenarios", cfg.Scenarios, "sql", cfg.SQL.Driver != "")
	return a, nil
}

func s3Config(c config.S3Config) blob.S3Config {
	return blob.S3Config{
		Region:          c.Region,
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		PathStyle:       c.PathStyle,
	}
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("close database", "err", err)
		}
	}
	if a.cfg.MetricsFile != "" {
		if err := a.rec.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Warn("write metrics", "path", a.cfg.MetricsFile, "err", err)
		}
	}
}

// run executes every enabled scenario and returns how many failed.
func (a *app) run(ctx context.Context) int {
	failed := 0
	if a.cfg.Enabled("supplychain") && !a.scenario(ctx, "supplychain", a.supplyChain) {
		failed++
	}
	if a.cfg.Enabled("routing") && !a.scenario(ctx, "routing", a.routing) {
		failed++
	}
	if a.cfg.Enabled("portfolio") {
		for _, c := range a.cfg.Currencies {
			run := func(ctx context.Context) (float64, string, error) { return a.portfolio(ctx, c) }
			if !a.scenario(ctx, "portfolio/"+strings.ToUpper(c), run) {
				failed++
			}
		}
	}
	return failed
}

type scenarioFunc func(ctx context.Context) (objective float64, detail string, err error)

// scenario runs fn and records its outcome. A failure is logged here and only here.
func (a *app) scenario(ctx context.Context, name string, fn scenarioFunc) bool {
	start := time.Now()
	obj, detail, err := fn(ctx)
	ok := err == nil
	a.rec.Scenario(name, ok)
	if ok {
		a.log.Info("scenario solved", "scenario", name, "objective", obj, "detail", detail,
			"elapsed", time.Since(start).Round(time.Millisecond))
	} else {
		a.log.Error("scenario failed", "scenario", name, "err", err)
		detail = err.Error()
	}
	if a.db != nil {
		sc := store.Scenario{Name: name, OK: ok, Objective: obj, Detail: detail}
		if err := a.db.RecordScenario(ctx, a.cfg.RunID, sc); err != nil {
			a.log.Warn("record scenario", "scenario", name, "err", err)
		}
	}
	return ok
}

func (a *app) supplyChain(ctx context.Context) (float64, string, error) {
	src, done, err := a.source(ctx, a.cfg.SupplyBook)
	if err != nil {
		return 0, "", err
	}
	defer done()

	opts := supplychain.DefaultOptions()
	opts.Relaxed = !a.cfg.Engine.Integral
	rep, err := supplychain.Run(ctx, src, a.eng, opts)
	if err != nil {
		return 0, "", err
	}
	if err := supplychain.WriteText(a.stdout, rep); err != nil {
		return 0, "", err
	}
	return rep.TotalCost, fmt.Sprintf("%d orders, %d deliveries", len(rep.Orders), len(rep.Deliveries)), nil
}

func (a *app) routing(ctx context.Context) (float64, string, error) {
	src, done, err := a.source(ctx, a.cfg.RoutingBook)
	if err != nil {
		return 0, "", err
	}
	defer done()

	opts := routing.DefaultOptions()
	if len(a.cfg.Routing.Towns) > 0 {
		opts.Towns = a.cfg.Routing.Towns
	}
	opts.Anchor = a.cfg.Routing.Anchor
	if opts.Strategy, err = routing.ParseStrategy(a.cfg.Routing.Strategy); err != nil {
		return 0, "", err
	}
	opts.MaxEnumerateTowns = a.cfg.Routing.MaxEnumerate
	opts.MaxRounds = a.cfg.Routing.MaxRounds
	opts.CrossCheck = a.cfg.Routing.CrossCheck

	res, err := routing.Run(ctx, src, a.eng, opts)
	if err != nil {
		return 0, "", err
	}
	if err := routing.WriteText(a.stdout, res); err != nil {
		return 0, "", err
	}
	return res.Route.Distance, fmt.Sprintf("%s, %d solves, %d cuts", res.Strategy, res.Rounds, res.Cuts), nil
}

func (a *app) portfolio(ctx context.Context, currency string) (float64, string, error) {
	cur, err := portfolio.ParseCurrency(currency)
	if err != nil {
		return 0, "", err
	}
	src, done, err := a.source(ctx, a.cfg.PortfolioBook)
	if err != nil {
		return 0, "", err
	}
	defer done()

	opts := portfolio.DefaultOptions()
	opts.Currency = cur
	opts.MaxWeight = a.cfg.Portfolio.MaxWeight
	opts.MinReturn = a.cfg.Portfolio.MinReturn
	res, solveErr := portfolio.Run(ctx, src, a.eng, opts)
	if res == nil {
		return 0, "", solveErr
	}
	// A failed model still leaves the other allocation to print and save; the
	// failure itself is reported once by scenario.
	if err := portfolio.WriteText(a.stdout, res); err != nil {
		return 0, "", err
	}
	for _, alloc := range res.Allocations() {
		if err := a.saveAllocation(ctx, alloc); err != nil {
			return 0, "", err
		}
	}
	if solveErr != nil {
		return 0, "", solveErr
	}
	return res.MaxReturn.AverageReward, fmt.Sprintf("min-risk reward %.6f", res.MinRisk.AverageReward), nil
}

// saveAllocation writes the CSV to the output store and, if enabled, the rows to SQL.
func (a *app) saveAllocation(ctx context.Context, alloc *portfolio.Allocation) error {
	var buf bytes.Buffer
	if err := alloc.WriteCSV(&buf); err != nil {
		return fmt.Errorf("render %s: %w", alloc.FileName(), err)
	}
	if err := a.out.Put(ctx, alloc.FileName(), &buf, "text/csv"); err != nil {
		return err
	}
	a.log.Info("allocation written", "location", a.out.Location(alloc.FileName()))
	if a.db != nil {
		if err := a.db.SaveAllocation(ctx, a.cfg.RunID, alloc); err != nil {
			return err
		}
	}
	return nil
}

// source resolves a workbook setting: empty means the CSV directory, s3:// URLs
// are fetched through the blob store, anything else is a local .xlsx path.
func (a *app) source(ctx context.Context, book string) (table.Source, func(), error) {
	noop := func() {}
	switch {
	case book == "":
		return table.CSVDir{Dir: a.cfg.DataDir}, noop, nil
	case strings.HasPrefix(book, "s3://"):
		dir, key := path.Split(book)
		if key == "" || dir == "s3://" {
			return nil, noop, fmt.Errorf("workbook %q: want s3://bucket/key", book)
		}
		st, err := blob.Open(ctx, strings.TrimSuffix(dir, "/"), s3Config(a.cfg.S3))
		if err != nil {
			return nil, noop, err
		}
		rc, err := st.Get(ctx, key)
		if err != nil {
			return nil, noop, err
		}
		defer func() { _ = rc.Close() }()
		wb, err := table.ReadWorkbook(rc)
		if err != nil {
			return nil, noop, err
		}
		return wb, func() { _ = wb.Close() }, nil
	default:
		wb, err := table.OpenWorkbook(book)
		if err != nil {
			return nil, noop, err
		}
		return wb, func() { _ = wb.Close() }, nil
	}
}
