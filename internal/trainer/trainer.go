package trainer

import (
	"fmt"
	"time"

	"github.com/drakos74/bitrate/internal/checkpoint"
	"github.com/drakos74/bitrate/internal/model"
	"github.com/drakos74/bitrate/internal/oracle"
	"github.com/drakos74/bitrate/internal/storage"
	"github.com/drakos74/bitrate/internal/vq"
	"github.com/rs/zerolog/log"
)

// Trainer updates a codebook online from a stream of patterns and saves checkpoints of it.
type Trainer struct {
	store      storage.Persistence
	expDir     string
	params     model.Params
	epochs     int
	every      int
	iterations int
	now        func() time.Time
}

// New creates a new trainer saving into expDir.
func New(store storage.Persistence, expDir string, params model.Params) *Trainer {
	return &Trainer{
		store:      store,
		expDir:     expDir,
		params:     params,
		epochs:     1,
		iterations: 30,
		now:        time.Now,
	}
}

// Epochs sets how many times the stream is consumed.
func (t *Trainer) Epochs(epochs int) *Trainer {
	t.epochs = epochs
	return t
}

// Every saves a checkpoint every n updates, 0 only saves at the end.
func (t *Trainer) Every(n int) *Trainer {
	t.every = n
	return t
}

// Iterations sets the k-means iterations of the codebook initialisation.
func (t *Trainer) Iterations(n int) *Trainer {
	t.iterations = n
	return t
}

// Run trains on the stream and returns the saved checkpoint directories.
// A failing stream still saves the current codebook, flagged as a crash.
func (t *Trainer) Run(stream oracle.Stream) ([]string, error) {
	stats := model.Stats{StartTime: t.now()}
	var cb *vq.Codebook
	saved := make([]string, 0)

	save := func(crash bool) error {
		if cb == nil {
			return nil
		}
		stats.SaveTime = t.now()
		stats.Crash = crash
		dir, err := checkpoint.Save(t.store, t.expDir, cb, t.params, stats)
		if err != nil {
			return err
		}
		log.Info().Str("dir", dir).Int("iterations", stats.Iterations).Bool("crash", crash).Msg("saved checkpoint")
		saved = append(saved, dir)
		return nil
	}

	for epoch := 0; epoch < t.epochs; epoch++ {
		stream.Reset()
		for {
			batch, ok, err := stream.Next()
			if err != nil {
				if serr := save(true); serr != nil {
					log.Error().Err(serr).Msg("could not save checkpoint after crash")
				}
				return saved, fmt.Errorf("could not read batch: %w", err)
			}
			if !ok {
				break
			}
			if batch == nil {
				continue
			}
			rows, _ := batch.Dims()
			if cb == nil {
				if rows < t.params.Codes {
					log.Debug().Int("rows", rows).Int("codes", t.params.Codes).Msg("batch too small to initialise codebook")
					continue
				}
				cb, err = vq.Init(batch, t.params.Codes, t.iterations)
				if err != nil {
					return saved, fmt.Errorf("could not initialise codebook: %w", err)
				}
			}
			dist := cb.Update(batch, t.params.LearningRate)
			stats.Iterations++
			stats.Samples += rows
			log.Debug().Int("epoch", epoch).Int("iteration", stats.Iterations).Float64("dist", dist).Msg("update")
			if t.every > 0 && stats.Iterations%t.every == 0 {
				if err := save(false); err != nil {
					return saved, err
				}
			}
		}
	}
	if cb == nil {
		return saved, fmt.Errorf("no batch large enough to initialise %d codes", t.params.Codes)
	}
	if t.every == 0 || stats.Iterations%t.every != 0 {
		if err := save(false); err != nil {
			return saved, err
		}
	}
	return saved, nil
}
