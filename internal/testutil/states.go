package testutil

import "fmt"

// AllStates returns every numBits-wide binary string in ascending order.
func AllStates(numBits int) []string {
	total := 1 << uint(numBits)
	out := make([]string, total)
	for i := 0; i < total; i++ {
		if numBits == 0 {
			out[i] = ""
			continue
		}
		out[i] = fmt.Sprintf("%0*b", numBits, i)
	}
	return out
}

// MissingStates returns, in ascending order, the numBits-wide states that do
// not appear in any of the trajectories.
func MissingStates(numBits int, trajectories [][]string) []string {
	covered := make(map[string]struct{})
	for _, states := range trajectories {
		for _, s := range states {
			covered[s] = struct{}{}
		}
	}
	var missing []string
	for _, s := range AllStates(numBits) {
		if _, ok := covered[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}
