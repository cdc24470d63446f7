package routing

import (
	"errors"
	"fmt"
)

// SheetDistances is the sheet read by Load.
const SheetDistances = "Distances"

// DefaultAnchor is where the default tour starts and ends.
const DefaultAnchor = "Cork"

// DefaultTowns is the default list of towns to visit.
var DefaultTowns = []string{
	"Cork", "Dublin", "Limerick", "Waterford", "Galway",
	"Wexford", "Belfast", "Athlone", "Rosslare", "Wicklow",
}

// DefaultMaxEnumerateTowns is the largest instance Auto enumerates: the ten
// default towns. Eleven towns already carry 2,035 subtour rows.
const DefaultMaxEnumerateTowns = 10

// MaxExactTowns bounds ExactTour (Held–Karp keeps N·2^N states).
const MaxExactTowns = 16

// Sentinel errors.
var (
	// ErrMalformedRoute is returned when the solved legs do not form one tour from the anchor.
	ErrMalformedRoute = errors.New("routing: malformed route")

	// ErrTooManyTowns is returned when exhaustive subtour enumeration (or ExactTour) exceeds its limit.
	ErrTooManyTowns = errors.New("routing: too many towns for exhaustive formulation")

	// ErrTooFewTowns is returned for fewer than two towns.
	ErrTooFewTowns = errors.New("routing: at least two towns are required")

	// ErrUnknownTown is returned when the anchor or a requested town has no distances.
	ErrUnknownTown = errors.New("routing: unknown town")

	// ErrMissingDistance is returned when a pair of distinct towns has no distance.
	ErrMissingDistance = errors.New("routing: missing distance")

	// ErrNoConvergence is returned when lazy cut generation exhausts Options.MaxRounds.
	ErrNoConvergence = errors.New("routing: subtour cuts did not converge")

	// ErrCrossCheck is returned when the solved distance disagrees with ExactTour.
	ErrCrossCheck = errors.New("routing: solved distance differs from exact tour")

	// ErrBadOption is returned for invalid Options.
	ErrBadOption = errors.New("routing: invalid option")
)

// Strategy selects how subtour-elimination rows are generated.
type Strategy int

const (
	// Auto enumerates up to MaxEnumerateTowns and generates lazily beyond.
	Auto Strategy = iota
	// Enumerate adds every subtour row before solving.
	Enumerate
	// Lazy adds subtour rows only for cycles found in a solution.
	Lazy
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Enumerate:
		return "enumerate"
	case Lazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// ParseStrategy maps "auto", "enumerate" and "lazy" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "auto", "":
		return Auto, nil
	case "enumerate":
		return Enumerate, nil
	case "lazy":
		return Lazy, nil
	default:
		return Auto, fmt.Errorf("strategy %q: %w", s, ErrBadOption)
	}
}

// Options configures Build and Run.
type Options struct {
	// Towns to visit. Empty means every row label of the distance sheet.
	Towns []string

	// Anchor is the first and last town of the reported tour. Empty means the first town.
	Anchor string

	Strategy Strategy

	// MaxEnumerateTowns is the largest instance Enumerate accepts.
	MaxEnumerateTowns int

	// MaxRounds caps lazy solve-and-cut rounds.
	MaxRounds int

	// CrossCheck compares the solved distance with ExactTour.
	CrossCheck bool
}

// DefaultOptions returns the ten default towns anchored at Cork, Auto strategy,
// enumeration up to 10 towns, 200 lazy rounds, no cross-check.
func DefaultOptions() Options {
	towns := make([]string, len(DefaultTowns))
	copy(towns, DefaultTowns)
	return Options{
		Towns:             towns,
		Anchor:            DefaultAnchor,
		Strategy:          Auto,
		MaxEnumerateTowns: DefaultMaxEnumerateTowns,
		MaxRounds:         200,
	}
}

func validateOptions(o Options) error {
	if o.MaxEnumerateTowns < 2 || o.MaxRounds < 1 {
		return ErrBadOption
	}
	if o.Strategy < Auto || o.Strategy > Lazy {
		return ErrBadOption
	}
	return nil
}

// Leg is one travelled arc of a tour.
type Leg struct {
	From, To string
	Distance float64
}

// Route is a closed tour: Towns[0] == Towns[len(Towns)-1] == anchor.
type Route struct {
	Towns    []string
	Legs     []Leg
	Distance float64
}

// Result is the outcome of Run.
type Result struct {
	Route     *Route
	Objective float64  // solver objective, equal to Route.Distance at the optimum
	Strategy  Strategy // strategy actually used (never Auto)
	Rounds    int      // solves performed
	Cuts      int      // subtour rows in the final model
	Nodes     int      // branch-and-bound nodes of the final solve
}
