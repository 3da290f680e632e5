package rate

import (
	"math"

	"github.com/drakos74/bitrate/internal/model"
)

// Tolerance is how close the log2 ratio of two pattern sizes must be to an integer.
const Tolerance = 1e-10

// SameRate decides if two (pattern size, codebook size) configurations lie on the same bitrate curve.
// Doubling the pattern size squares the codebook, so the pattern sizes must differ
// by a power of two k and the larger codebook must be the smaller one squared k times.
func SameRate(psize1, ncodes1, psize2, ncodes2 int) bool {
	if psize1 == psize2 {
		return ncodes1 == ncodes2
	}
	if psize1 > psize2 {
		psize1, psize2 = psize2, psize1
		ncodes1, ncodes2 = ncodes2, ncodes1
	}
	if ncodes2 < ncodes1 {
		return false
	}
	exponent := math.Log2(float64(psize2)) - math.Log2(float64(psize1))
	if math.Abs(exponent-math.Round(exponent)) > Tolerance {
		return false
	}
	n := ncodes1
	for k := 0; k < int(math.Round(exponent)); k++ {
		// anything past the int range can not match ncodes2
		if n != 0 && n > math.MaxInt/n {
			return false
		}
		n = n * n
	}
	return n == ncodes2
}

// Same checks if the two results lie on the same bitrate curve.
func Same(r1, r2 model.Result) bool {
	return SameRate(r1.PatternSize, r1.CodebookSize, r2.PatternSize, r2.CodebookSize)
}

// Classify groups the results into bitrate classes, in the given order.
// Each result joins the first class whose first member has the same rate, or starts a new class.
// Classes are never merged, as the relation is not transitive.
func Classify(results []model.Result) []model.Class {
	classes := make([]model.Class, 0)
	for _, r := range results {
		joined := false
		for i, class := range classes {
			if Same(r, class.Ref()) {
				classes[i] = append(class, r)
				joined = true
				break
			}
		}
		if !joined {
			classes = append(classes, model.Class{r})
		}
	}
	return classes
}

// Reversed returns the results in the order they are popped from the end of the collection.
func Reversed(results []model.Result) []model.Result {
	popped := make([]model.Result, len(results))
	for i, r := range results {
		popped[len(results)-1-i] = r
	}
	return popped
}
