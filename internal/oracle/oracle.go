package oracle

import (
	"github.com/drakos74/bitrate/internal/model"
	"gonum.org/v1/gonum/mat"
)

// ChromaBins is the number of chroma features of one beat.
const ChromaBins = 12

// Source opens streams of feature batches.
type Source interface {
	Open(params model.Params, location string) (Stream, error)
}

// Stream is a finite, restartable sequence of feature batches.
type Stream interface {
	// Next returns the next batch of patterns, one pattern per row.
	// ok is false once the stream is exhausted. A nil batch with ok set is an empty batch.
	Next() (batch *mat.Dense, ok bool, err error)
	// Reset restarts the stream from the first batch.
	Reset()
}

// SourceFunc is a function acting as a Source.
type SourceFunc func(params model.Params, location string) (Stream, error)

func (f SourceFunc) Open(params model.Params, location string) (Stream, error) {
	return f(params, location)
}

// Batches is an in-memory stream.
type Batches struct {
	batches []*mat.Dense
	index   int
}

// NewBatches creates a stream over the given batches; nil entries are empty batches.
func NewBatches(batches ...*mat.Dense) *Batches {
	return &Batches{batches: batches}
}

func (b *Batches) Next() (*mat.Dense, bool, error) {
	if b.index >= len(b.batches) {
		return nil, false, nil
	}
	batch := b.batches[b.index]
	b.index++
	return batch, true, nil
}

func (b *Batches) Reset() {
	b.index = 0
}
