package rate

import (
	"math"
	"testing"

	"github.com/drakos74/bitrate/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSameRate(t *testing.T) {

	type test struct {
		p1, n1, p2, n2 int
		same           bool
	}

	tests := map[string]test{
		"identical":            {p1: 4, n1: 16, p2: 4, n2: 16, same: true},
		"same-psize":           {p1: 4, n1: 16, p2: 4, n2: 17},
		"double":               {p1: 2, n1: 4, p2: 4, n2: 16, same: true},
		"double-reversed":      {p1: 4, n1: 16, p2: 2, n2: 4, same: true},
		"double-wrong-codes":   {p1: 2, n1: 4, p2: 4, n2: 8},
		"quadruple":            {p1: 2, n1: 4, p2: 8, n2: 256, same: true},
		"octuple":              {p1: 2, n1: 4, p2: 16, n2: 65536, same: true},
		"shrinking-codebook":   {p1: 2, n1: 16, p2: 4, n2: 4},
		"not-power-of-two":     {p1: 2, n1: 4, p2: 6, n2: 16},
		"odd-multiple":         {p1: 3, n1: 2, p2: 12, n2: 16, same: true},
		"one-code":             {p1: 1, n1: 1, p2: 32, n2: 1, same: true},
		"large-shrinking":      {p1: 1, n1: 1 << 20, p2: 1 << 10, n2: 1},
		"overflow-never-equal": {p1: 1, n1: 3, p2: 1 << 7, n2: math.MaxInt},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.same, SameRate(tt.p1, tt.n1, tt.p2, tt.n2))
			// symmetric
			assert.Equal(t, tt.same, SameRate(tt.p2, tt.n2, tt.p1, tt.n1))
		})
	}
}

func TestSameRate_Reflexive(t *testing.T) {
	for p := 1; p <= 64; p++ {
		for _, n := range []int{1, 2, 3, 16, 255, 1 << 20} {
			assert.True(t, SameRate(p, n, p, n), "p=%d n=%d", p, n)
		}
	}
}

func TestSameRate_Symmetric(t *testing.T) {
	sizes := []int{1, 2, 3, 4, 6, 8, 12, 16}
	codes := []int{1, 2, 4, 9, 16, 81, 256, 6561, 65536}
	for _, p1 := range sizes {
		for _, n1 := range codes {
			for _, p2 := range sizes {
				for _, n2 := range codes {
					assert.Equal(t, SameRate(p1, n1, p2, n2), SameRate(p2, n2, p1, n1))
				}
			}
		}
	}
}

func TestSameRate_NotTransitive(t *testing.T) {

	// squaring chains compose, so these three do not form a chain at all
	a := model.NewResult(2, 4, 0, "a")
	b := model.NewResult(4, 16, 0, "b")
	c := model.NewResult(16, 256, 0, "c")
	assert.True(t, Same(a, b))
	assert.False(t, Same(b, c))
	assert.False(t, Same(a, c))

	// pattern sizes close enough to pass the tolerance pairwise, but not end to end
	p := 1 << 50
	x := model.NewResult(p, 5, 0.1, "x")
	y := model.NewResult(p+70000, 5, 0.2, "y")
	z := model.NewResult(p+140000, 5, 0.3, "z")
	assert.True(t, Same(x, y))
	assert.True(t, Same(y, z))
	assert.False(t, Same(x, z))

	// the first member decides
	classes := Classify([]model.Result{x, y, z})
	assert.Equal(t, []model.Class{{x, y}, {z}}, classes)

	classes = Classify([]model.Result{y, x, z})
	assert.Equal(t, []model.Class{{y, x, z}}, classes)
}

func TestClassify(t *testing.T) {

	type test struct {
		results []model.Result
		classes []model.Class
	}

	r := func(p, n int, d float64) model.Result {
		return model.NewResult(p, n, d, "")
	}

	tests := map[string]test{
		"empty": {
			results: []model.Result{},
			classes: []model.Class{},
		},
		"homogeneous": {
			results: []model.Result{r(2, 4, 0.5), r(4, 16, 0.4), r(8, 256, 0.3), r(2, 4, 0.45)},
			classes: []model.Class{{r(2, 4, 0.5), r(4, 16, 0.4), r(8, 256, 0.3), r(2, 4, 0.45)}},
		},
		"two-rates": {
			results: []model.Result{r(2, 4, 0.5), r(2, 8, 0.4), r(4, 16, 0.3), r(4, 64, 0.2)},
			classes: []model.Class{{r(2, 4, 0.5), r(4, 16, 0.3)}, {r(2, 8, 0.4), r(4, 64, 0.2)}},
		},
		"singletons": {
			results: []model.Result{r(2, 4, 0.5), r(3, 4, 0.4), r(5, 4, 0.3)},
			classes: []model.Class{{r(2, 4, 0.5)}, {r(3, 4, 0.4)}, {r(5, 4, 0.3)}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.classes, Classify(tt.results))
		})
	}
}

func TestReversed(t *testing.T) {
	a := model.NewResult(2, 4, 0.1, "a")
	b := model.NewResult(4, 16, 0.2, "b")
	c := model.NewResult(2, 8, 0.3, "c")

	assert.Equal(t, []model.Result{c, b, a}, Reversed([]model.Result{a, b, c}))
	assert.Empty(t, Reversed(nil))

	assert.Equal(t, []model.Class{{c}, {b, a}}, Classify(Reversed([]model.Result{a, b, c})))
}
