package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvplan/internal/store"
)

func writeSheet(t *testing.T, dir, name string, rows ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(strings.Join(rows, "\n")+"\n"), 0o600))
}

// fixtures writes a four-town distance sheet whose unique shortest tour is
// Cork, Dublin, Galway, Limerick (length 60), and price sheets where AAA grows
// 10% a month and everything else is flat.
func fixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSheet(t, dir, "Distances",
		",Cork,Dublin,Galway,Limerick",
		"Cork,0,10,23,21",
		"Dublin,11,0,20,23",
		"Galway,23,21,0,10",
		"Limerick,20,23,11,0",
	)
	writeSheet(t, dir, "USD",
		",AAA,BBB",
		"2020-01-01 00:00:00,100,50",
		"2020-02-01 00:00:00,110,50",
		"2020-03-01 00:00:00,121,50",
	)
	writeSheet(t, dir, "EUR",
		",CCC,DDD",
		"2020-01-01 00:00:00,8,20",
		"2020-02-01 00:00:00,8,20",
		"2020-03-01 00:00:00,8,20",
	)
	writeSheet(t, dir, "Currency",
		",EURUSD",
		"2020-01-01 00:00:00,1.25",
		"2020-02-01 00:00:00,1.25",
		"2020-03-01 00:00:00,1.25",
	)
	return dir
}

func TestCLI_RoutingAndPortfolio(t *testing.T) {
	data := fixtures(t)
	work := t.TempDir()
	out := filepath.Join(work, "out")
	db := filepath.Join(work, "lvplan.db")
	prom := filepath.Join(work, "lvplan.prom")

	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), []string{
		"-data", data,
		"-output", out,
		"-scenarios", "routing,portfolio",
		"-towns", "Cork,Dublin,Galway,Limerick",
		"-currencies", "USD,eur",
		"-crosscheck",
		"-sql-driver", "sqlite",
		"-sql-dsn", db,
		"-metrics", prom,
		"-run", "t1",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "Overall Distance: 60")
	assert.Contains(t, stdout.String(), "Cork -> Dublin : 10")
	assert.Contains(t, stdout.String(), "Portfolio (EUR)")

	for _, name := range []string{"maxreturn_USD.csv", "minrisk_USD.csv", "maxreturn_EUR.csv", "minrisk_EUR.csv"} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
	}

	s, err := store.Open(context.Background(), "sqlite", db)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	scs, err := s.Scenarios(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, scs, 3)
	assert.Equal(t, "portfolio/EUR", scs[0].Name)
	assert.Equal(t, "routing", scs[2].Name)
	assert.True(t, scs[2].OK)
	assert.InDelta(t, 60.0, scs[2].Objective, 1e-9)

	body, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(body), "lvplan_solves_total")
}

func TestCLI_FailureDoesNotStopOtherScenarios(t *testing.T) {
	data := fixtures(t)
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), []string{
		"-data", data,
		"-output", t.TempDir(),
		"-scenarios", "supplychain,routing",
		"-towns", "Cork,Dublin,Galway,Limerick",
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Overall Distance: 60")
	assert.Equal(t, 1, strings.Count(stderr.String(), "scenario failed"))
	assert.Contains(t, stderr.String(), "scenario=supplychain")
}

func TestCLI_MinRiskFailureKeepsMaxReturn(t *testing.T) {
	data := fixtures(t)
	out := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), []string{
		"-data", data,
		"-output", out,
		"-scenarios", "portfolio",
		"-currencies", "USD",
		"-min-return", "1.5",
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Max-return overall average monthly reward")
	_, err := os.Stat(filepath.Join(out, "maxreturn_USD.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "minrisk_USD.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, strings.Count(stderr.String(), "scenario failed"))
	assert.Contains(t, stderr.String(), "scenario=portfolio/USD")
}

func TestCLI_BadInvocation(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, cli(context.Background(), []string{"-no-such-flag"}, &stdout, &stderr))
	assert.Equal(t, 2, cli(context.Background(), []string{"-engine", "glpk", "-output", t.TempDir()}, &stdout, &stderr))
	assert.Equal(t, 2, cli(context.Background(), []string{"-scenarios", "weather", "-output", t.TempDir()}, &stdout, &stderr))
}
