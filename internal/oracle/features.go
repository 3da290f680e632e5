package oracle

import (
	"fmt"

	"github.com/drakos74/bitrate/internal/model"
	"gonum.org/v1/gonum/mat"
)

// Patterns cuts the beat-chroma matrix into patterns of params.PatternSize beats.
// Consecutive patterns start params.UseBars beats apart.
// It returns nil if the track is shorter than one pattern.
func Patterns(chroma mat.Matrix, params model.Params) (*mat.Dense, error) {
	beats, bins := chroma.Dims()
	if bins != ChromaBins {
		return nil, fmt.Errorf("expected %d chroma bins but found %d", ChromaBins, bins)
	}
	psize := params.PatternSize
	if psize <= 0 {
		return nil, fmt.Errorf("invalid pattern size: %d", psize)
	}
	step := params.UseBars
	if step <= 0 {
		step = 1
	}
	if beats < psize {
		return nil, nil
	}

	n := (beats-psize)/step + 1
	patterns := mat.NewDense(n, psize*ChromaBins, nil)
	for p := 0; p < n; p++ {
		start := p * step
		shift := 0
		if params.KeyInvariant {
			shift = strongestBin(chroma, start, psize)
		}
		row := patterns.RawRowView(p)
		for b := 0; b < psize; b++ {
			for c := 0; c < ChromaBins; c++ {
				row[b*ChromaBins+c] = chroma.At(start+b, (c+shift)%ChromaBins)
			}
		}
	}
	return patterns, nil
}

func strongestBin(chroma mat.Matrix, start, length int) int {
	var energy [ChromaBins]float64
	for b := start; b < start+length; b++ {
		for c := 0; c < ChromaBins; c++ {
			energy[c] += chroma.At(b, c)
		}
	}
	best := 0
	for c := 1; c < ChromaBins; c++ {
		if energy[c] > energy[best] {
			best = c
		}
	}
	return best
}
