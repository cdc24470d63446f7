// Package routing formulates single-vehicle cyclic routing as a binary program
// and reconstructs the tour from the solved legs.
//
// Model
//
// For N towns with distance d(a,b) there is one binary leg[a,b] per ordered
// pair of distinct towns:
//
//	Σ_b leg[a,b] = 1                      ∀ a   (leave every town once)
//	Σ_a leg[a,b] = 1                      ∀ b   (enter every town once)
//	Σ_{a,b∈S, a≠b} leg[a,b] ≤ |S| − 1     ∀ S ⊂ towns, 2 ≤ |S| ≤ N−1
//	min Σ d(a,b)·leg[a,b]
//
// The degree rows alone admit any permutation, i.e. several disjoint cycles.
// The subtour family removes every permutation that is not a single Hamiltonian
// cycle. It has 2^N − N − 2 members, so it is generated according to Strategy:
//
//   - Enumerate adds every member up front (stat/combin subsets). This is a hard
//     scaling limit: more than Options.MaxEnumerateTowns towns is ErrTooManyTowns.
//   - Lazy solves with degree rows only, splits the selected legs into cycles
//     and adds one subtour row per sub-cycle, then re-solves until a single
//     cycle remains or Options.MaxRounds is spent (ErrNoConvergence).
//   - Auto enumerates up to MaxEnumerateTowns (DefaultMaxEnumerateTowns, the
//     ten default towns) and goes lazy beyond. With lp/simplex the enumerated
//     rows reach the solver only once a relaxed point violates them.
//
// Reconstruction
//
// Starting at the anchor town, the tour follows the unique selected outgoing leg
// (value > lp.SelectThreshold) of each town. A town without such a leg, with
// more than one, a revisit, or a return to the anchor before all N towns are
// seen fails with ErrMalformedRoute; the walk never takes more than N steps.
//
// Cross-check
//
// ExactTour solves the same instance with Held–Karp dynamic programming,
// O(N²·2^N) time and O(N·2^N) memory, for N ≤ MaxExactTowns. With
// Options.CrossCheck the solved distance must match it (ErrCrossCheck otherwise).
package routing
