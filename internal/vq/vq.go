package vq

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cdipaolo/goml/cluster"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model is a trained quantizer.
type Model interface {
	// Predict returns the nearest codeword and the distance to it for every row of data.
	Predict(data *mat.Dense) ([]int, []float64)
	// Size is the number of codewords.
	Size() int
}

// Codebook is an online vector quantizer.
// Every row of the underlying matrix is one codeword.
type Codebook struct {
	codes *mat.Dense
}

// New creates a codebook out of the given codewords.
func New(codewords [][]float64) (*Codebook, error) {
	if len(codewords) == 0 {
		return nil, fmt.Errorf("empty codebook")
	}
	dim := len(codewords[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero dimension codewords")
	}
	codes := mat.NewDense(len(codewords), dim, nil)
	for i, c := range codewords {
		if len(c) != dim {
			return nil, fmt.Errorf("codeword %d has dimension %d instead of %d", i, len(c), dim)
		}
		codes.SetRow(i, c)
	}
	return &Codebook{codes: codes}, nil
}

// Init creates a codebook of size codes out of the k-means centroids of data.
func Init(data *mat.Dense, codes int, iterations int) (*Codebook, error) {
	rows, _ := data.Dims()
	if rows < codes {
		return nil, fmt.Errorf("not enough samples to initialise %d codes: %d", codes, rows)
	}
	samples := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		samples[i] = mat.Row(nil, i, data)
	}
	model := cluster.NewKMeans(codes, iterations, samples)
	if err := model.Learn(); err != nil {
		return nil, fmt.Errorf("could not train k-means: %w", err)
	}
	centroids := model.Centroids
	for i, c := range centroids {
		// empty clusters have no mean
		if floats.HasNaN(c) {
			centroids[i] = samples[i%rows]
		}
	}
	return New(centroids)
}

// Size returns the number of codewords.
func (c *Codebook) Size() int {
	r, _ := c.codes.Dims()
	return r
}

// Dim returns the dimension of the codewords.
func (c *Codebook) Dim() int {
	_, d := c.codes.Dims()
	return d
}

// Codeword returns a copy of the i-th codeword.
func (c *Codebook) Codeword(i int) []float64 {
	return mat.Row(nil, i, c.codes)
}

func (c *Codebook) nearest(x []float64) (int, float64) {
	best := -1
	dist := math.Inf(1)
	for j := 0; j < c.Size(); j++ {
		d := floats.Distance(x, c.codes.RawRowView(j), 2)
		if d < dist {
			best = j
			dist = d
		}
	}
	return best, dist
}

// Predict assigns every row of data to its nearest codeword.
// It panics if the data dimension does not match the codebook.
func (c *Codebook) Predict(data *mat.Dense) ([]int, []float64) {
	rows, cols := data.Dims()
	if cols != c.Dim() {
		panic(fmt.Sprintf("vq: dimension mismatch: data %d codebook %d", cols, c.Dim()))
	}
	codes := make([]int, rows)
	dists := make([]float64, rows)
	for i := 0; i < rows; i++ {
		codes[i], dists[i] = c.nearest(data.RawRowView(i))
	}
	return codes, dists
}

// Update moves the winning codeword towards every sample of data by the given rate.
// It returns the average distance of the samples before the update.
func (c *Codebook) Update(data *mat.Dense, rate float64) float64 {
	rows, cols := data.Dims()
	if cols != c.Dim() {
		panic(fmt.Sprintf("vq: dimension mismatch: data %d codebook %d", cols, c.Dim()))
	}
	if rows == 0 {
		return 0
	}
	diff := make([]float64, cols)
	var total float64
	for i := 0; i < rows; i++ {
		x := data.RawRowView(i)
		j, d := c.nearest(x)
		total += d
		code := c.codes.RawRowView(j)
		floats.SubTo(diff, x, code)
		floats.AddScaled(code, rate, diff)
	}
	return total / float64(rows)
}

type codebookJSON struct {
	Codewords [][]float64 `json:"codewords"`
}

// MarshalJSON encodes the codebook as a list of codewords.
func (c *Codebook) MarshalJSON() ([]byte, error) {
	cw := make([][]float64, c.Size())
	for i := range cw {
		cw[i] = c.Codeword(i)
	}
	return json.Marshal(codebookJSON{Codewords: cw})
}

// UnmarshalJSON decodes a list of codewords into the codebook.
func (c *Codebook) UnmarshalJSON(b []byte) error {
	var cb codebookJSON
	if err := json.Unmarshal(b, &cb); err != nil {
		return err
	}
	n, err := New(cb.Codewords)
	if err != nil {
		return err
	}
	c.codes = n.codes
	return nil
}
