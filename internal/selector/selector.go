package selector

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drakos74/bitrate/internal/checkpoint"
	"github.com/drakos74/bitrate/internal/model"
	"github.com/drakos74/bitrate/internal/oracle"
	"github.com/drakos74/bitrate/internal/storage"
	"github.com/drakos74/bitrate/internal/vq"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FeaturesPerPattern is the number of features encoding one unit of pattern size.
const FeaturesPerPattern = oracle.ChromaBins

var (
	NoCheckpointErr = errors.New("no saved model found")
	EmptyDatasetErr = errors.New("empty dataset")
	NoSelectionErr  = errors.New("no model selected")
)

// Selector picks the best checkpoint of an experiment on the validation data
// and reports its distortion on the test data.
type Selector struct {
	source   oracle.Source
	loader   vq.Loader
	filter   *checkpoint.Filter
	validDir string
	testDir  string
}

// New creates a new selector for the given validation and test locations.
func New(source oracle.Source, loader vq.Loader, filter *checkpoint.Filter, validDir, testDir string) *Selector {
	return &Selector{
		source:   source,
		loader:   loader,
		filter:   filter,
		validDir: validDir,
		testDir:  testDir,
	}
}

// Candidates lists the complete checkpoints of the experiment in lexicographic order.
// Incomplete checkpoints are skipped but never trimmed.
func (s *Selector) Candidates(expDir string) ([]string, error) {
	entries, err := os.ReadDir(expDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("could not read experiment dir '%s': %w", expDir, err)
	}
	candidates := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), checkpoint.Prefix) {
			continue
		}
		dir := filepath.Join(expDir, e.Name())
		if s.filter.IsComplete(dir) {
			candidates = append(candidates, dir)
		}
	}
	sort.Strings(candidates)
	return candidates, nil
}

// LastParams loads the parameters of the lexicographically last candidate.
func LastParams(store storage.Persistence, candidates []string) (model.Params, error) {
	if len(candidates) == 0 {
		return model.Params{}, NoCheckpointErr
	}
	return checkpoint.LoadParams(store, candidates[len(candidates)-1])
}

// Select evaluates all checkpoints of the experiment.
// The params configure the data streams for every checkpoint of the experiment.
func (s *Selector) Select(expDir string, params model.Params) (model.Result, error) {
	candidates, err := s.Candidates(expDir)
	if err != nil {
		return model.Result{}, err
	}
	if len(candidates) == 0 {
		return model.Result{}, fmt.Errorf("'%s': %w", expDir, NoCheckpointErr)
	}

	validData, err := s.load(params, s.validDir)
	if err != nil {
		return model.Result{}, fmt.Errorf("could not load validation data: %w", err)
	}
	testData := validData
	if filepath.Clean(s.testDir) != filepath.Clean(s.validDir) {
		testData, err = s.load(params, s.testDir)
		if err != nil {
			return model.Result{}, fmt.Errorf("could not load test data: %w", err)
		}
	}

	best := ""
	bestDist := math.Inf(1)
	for _, c := range candidates {
		m, err := s.loader.Load(c)
		if err != nil {
			return model.Result{}, err
		}
		dist, err := Distortion(m, validData)
		if err != nil {
			return model.Result{}, fmt.Errorf("could not evaluate '%s': %w", c, err)
		}
		log.Debug().Str("model", c).Float64("dist", dist).Msg("validation")
		if dist < bestDist {
			best = c
			bestDist = dist
		}
	}
	if best == "" {
		return model.Result{}, fmt.Errorf("'%s': %w", expDir, NoSelectionErr)
	}

	m, err := s.loader.Load(best)
	if err != nil {
		return model.Result{}, err
	}
	dist, err := Distortion(m, testData)
	if err != nil {
		return model.Result{}, fmt.Errorf("could not test '%s': %w", best, err)
	}
	_, features := testData.Dims()
	log.Info().
		Str("model", best).
		Float64("valid", bestDist).
		Float64("dist", dist).
		Msg("best model")
	return model.NewResult(features/FeaturesPerPattern, m.Size(), dist, best), nil
}

func (s *Selector) load(params model.Params, location string) (*mat.Dense, error) {
	stream, err := s.source.Open(params, location)
	if err != nil {
		return nil, err
	}
	data, err := Materialize(stream)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", location, err)
	}
	return data, nil
}

// Materialize concatenates all non-empty batches of the stream.
func Materialize(stream oracle.Stream) (*mat.Dense, error) {
	batches := make([]*mat.Dense, 0)
	rows, cols := 0, 0
	for {
		batch, ok, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if batch == nil {
			continue
		}
		r, c := batch.Dims()
		if r == 0 || c == 0 {
			continue
		}
		if len(batches) > 0 && c != cols {
			return nil, fmt.Errorf("batch has %d features instead of %d", c, cols)
		}
		cols = c
		rows += r
		batches = append(batches, batch)
	}
	if rows == 0 {
		return nil, EmptyDatasetErr
	}
	data := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, b := range batches {
		r, _ := b.Dims()
		data.Slice(offset, offset+r, 0, cols).(*mat.Dense).Copy(b)
		offset += r
	}
	return data, nil
}

// Distortion is the average distance of the data to the model codewords.
func Distortion(m vq.Model, data *mat.Dense) (float64, error) {
	_, cols := data.Dims()
	if d, ok := m.(interface{ Dim() int }); ok && d.Dim() != cols {
		return 0, fmt.Errorf("model dimension %d does not match data dimension %d", d.Dim(), cols)
	}
	_, dists := m.Predict(data)
	if len(dists) == 0 {
		return 0, EmptyDatasetErr
	}
	return stat.Mean(dists, nil), nil
}
