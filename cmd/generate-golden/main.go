// Command generate-golden writes the cycle reports used by the explorer's
// golden test. It uses an independent integer implementation of the
// register so the golden data does not depend on the code under test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agbru/lfsrscan/pkg/models"
)

var polynomials = []string{
	"0", "1", "10", "11",
	"100", "011", "110",
	"1001", "1100", "0011", "0110",
	"10100", "100001",
}

func main() {
	outputDir := flag.String("out", "internal/explorer/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "cycles_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	data := make([]models.Report, 0, len(polynomials))
	for _, p := range polynomials {
		r := explore(p)
		data = append(data, r)
		fmt.Printf("Generated %s: %d loops\n", p, r.Loops)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// explore is the oracle. The register's leftmost bit is the integer's most
// significant bit; tap j of the polynomial string reads integer bit j.
func explore(polynomial string) models.Report {
	n := len(polynomial)
	var taps uint64
	for j := 0; j < n; j++ {
		if polynomial[j] == '1' {
			taps |= 1 << uint(j)
		}
	}

	step := func(s uint64) uint64 {
		fb := uint64(bits.OnesCount64(s&taps) & 1)
		return fb<<uint(n-1) | s>>1
	}
	format := func(s uint64) string {
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%0*b", n, s)
	}

	r := models.Report{Polynomial: polynomial, NumBits: n, Cycles: []models.Cycle{}}
	if n == 0 {
		r.Cycles = append(r.Cycles, models.Cycle{Seed: "", States: []string{""}, Period: 1})
		r.Loops = 1
		return r
	}

	seen := make(map[string]bool)
	for seed := uint64(0); seed < 1<<uint(n); seed++ {
		visited := map[uint64]bool{seed: true}
		states := []string{format(seed)}
		for s := step(seed); !visited[s]; s = step(s) {
			visited[s] = true
			states = append(states, format(s))
		}

		sorted := append([]string(nil), states...)
		sort.Strings(sorted)
		sig := strings.Join(sorted, "|")
		if seen[sig] {
			continue
		}
		seen[sig] = true
		r.Cycles = append(r.Cycles, models.Cycle{Seed: format(seed), States: states, Period: len(states)})
	}
	r.Loops = len(r.Cycles)
	return r
}
