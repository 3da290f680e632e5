package model

import "fmt"

// Result is the outcome of evaluating one experiment directory.
type Result struct {
	PatternSize  int     `json:"psize"`
	CodebookSize int     `json:"ncodes"`
	Distortion   float64 `json:"dist"`
	// Source is the path of the winning checkpoint.
	// It is not part of the replot data and is empty for parsed results.
	Source string `json:"model,omitempty"`
}

// NewResult creates a new result.
func NewResult(psize, ncodes int, dist float64, source string) Result {
	return Result{
		PatternSize:  psize,
		CodebookSize: ncodes,
		Distortion:   dist,
		Source:       source,
	}
}

// Triple returns the numeric part of the result.
func (r Result) Triple() (int, int, float64) {
	return r.PatternSize, r.CodebookSize, r.Distortion
}

func (r Result) String() string {
	return fmt.Sprintf("psize=%d, ncodes=%d, dist=%v, model=%s", r.PatternSize, r.CodebookSize, r.Distortion, r.Source)
}

// Class is a group of results that share the same bitrate.
// The first member is the reference all the others were compared against.
type Class []Result

// Ref returns the reference member of the class.
func (c Class) Ref() Result {
	return c[0]
}

// MinPatternSize returns the smallest pattern size in the class.
func (c Class) MinPatternSize() int {
	m := 0
	for i, r := range c {
		if i == 0 || r.PatternSize < m {
			m = r.PatternSize
		}
	}
	return m
}

// MinCodebookSize returns the smallest codebook in the class.
func (c Class) MinCodebookSize() int {
	m := 0
	for i, r := range c {
		if i == 0 || r.CodebookSize < m {
			m = r.CodebookSize
		}
	}
	return m
}

// Label is the name of the bitrate curve the class describes.
func (c Class) Label() string {
	return fmt.Sprintf("psize=%d, #codes=%d", c.MinPatternSize(), c.MinCodebookSize())
}
