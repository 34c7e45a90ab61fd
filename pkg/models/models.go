/*
Package models defines the JSON wire types shared by the CLI -json output,
the HTTP API and the golden test data.
*/
package models

// Report is the complete result of exploring one polynomial.
type Report struct {
	Polynomial string  `json:"polynomial"`         // Feedback polynomial as given.
	NumBits    int     `json:"num_bits"`           // Register width.
	Loops      int     `json:"loops"`              // Number of distinct cycles discovered.
	Cycles     []Cycle `json:"cycles"`             // Discovered cycles, in discovery order.
	Duration   string  `json:"duration,omitempty"` // Exploration time, when measured.
}

// Cycle is one discovered trajectory and the seed that first reached it.
type Cycle struct {
	Seed   string   `json:"seed"`
	States []string `json:"states"`
	Period int      `json:"period"`
}

// ErrorResponse is the body of every non-2xx HTTP API response.
type ErrorResponse struct {
	Error   string `json:"error"`             // Short status text.
	Message string `json:"message,omitempty"` // Human-readable detail.
}
