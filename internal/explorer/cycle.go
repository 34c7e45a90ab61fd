package explorer

import (
	"slices"
	"strings"
)

// SignatureSeparator joins the sorted states of a trajectory into its signature.
const SignatureSeparator = "|"

// Cycle is one discovered trajectory: the seed that first reached it (in
// ascending seed order) and the states visited from that seed, in visitation
// order, up to but excluding the first repeated state.
type Cycle struct {
	Seed   string
	States []string
}

// Period is the number of distinct states in the trajectory.
func (c Cycle) Period() int { return len(c.States) }

// Signature returns the order-independent identity of the trajectory.
func (c Cycle) Signature() string { return Signature(c.States) }

// Signature sorts a copy of states and joins them with SignatureSeparator.
// Two trajectories that visit the same set of states, whatever their starting
// point, share a signature. The input slice is left untouched.
func Signature(states []string) string {
	sorted := slices.Clone(states)
	slices.Sort(sorted)
	return strings.Join(sorted, SignatureSeparator)
}

// mergeDiscoveries concatenates per-chunk discoveries, in chunk order, keeping
// only the first occurrence of every signature. Each chunk must already be
// deduplicated in ascending seed order and chunks must cover ascending seed
// ranges; the result then equals a single sequential scan.
func mergeDiscoveries(chunks [][]Cycle) []Cycle {
	seen := make(map[string]struct{})
	var merged []Cycle
	for _, chunk := range chunks {
		for _, c := range chunk {
			sig := c.Signature()
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}
