//go:build highs

package main

import (
	"github.com/katalvlaran/lvplan/lp"
	"github.com/katalvlaran/lvplan/lp/highs"
)

func newHighs() (lp.Engine, error) { return highs.New(), nil }
