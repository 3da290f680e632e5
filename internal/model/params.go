package model

import "time"

// Params are the training parameters of an experiment.
// All checkpoints of one experiment share the same parameters.
type Params struct {
	// PatternSize is the number of beats in one pattern.
	PatternSize int `json:"psize"`
	// UseBars is the step in beats between two consecutive patterns.
	UseBars int `json:"usebars"`
	// KeyInvariant rotates every pattern so that its strongest chroma bin comes first.
	KeyInvariant bool `json:"keyinv"`
	// LearningRate is the online update rate of the codebook.
	LearningRate float64 `json:"lrate"`
	// Codes is the initial codebook size.
	Codes int `json:"codes"`
}

// DefaultParams returns the parameters the trainer starts with.
func DefaultParams() Params {
	return Params{
		PatternSize:  8,
		UseBars:      2,
		KeyInvariant: true,
		LearningRate: 1e-5,
		Codes:        16,
	}
}

// Stats are the training statistics saved along a checkpoint.
type Stats struct {
	StartTime  time.Time `json:"start"`
	SaveTime   time.Time `json:"save"`
	Iterations int       `json:"iterations"`
	Samples    int       `json:"samples"`
	Crash      bool      `json:"crash"`
}
