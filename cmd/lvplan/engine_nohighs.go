//go:build !highs

package main

import (
	"errors"

	"github.com/katalvlaran/lvplan/lp"
)

func newHighs() (lp.Engine, error) {
	return nil, errors.New("engine highs: binary built without -tags highs")
}
