package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/drakos74/bitrate/internal/metrics"
	"github.com/drakos74/bitrate/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	// Prefix is the name prefix of every checkpoint directory.
	Prefix = "exp_"
	// StartTimePattern matches the marker file recording when training started.
	StartTimePattern = "starttime_*.txt"
)

// ExpectedFiles are the artifacts every complete checkpoint contains.
var ExpectedFiles = []string{
	storage.NewKey("", storage.ModelArtifact).File(),
	storage.NewKey("", storage.ParamsArtifact).File(),
	storage.NewKey("", storage.StatsArtifact).File(),
}

// IsComplete checks if the checkpoint directory holds all the expected files.
// A missing directory is just incomplete.
func IsComplete(path string) bool {
	for _, f := range ExpectedFiles {
		if _, err := os.Stat(filepath.Join(path, f)); err != nil {
			return false
		}
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if ok, _ := filepath.Match(StartTimePattern, e.Name()); ok {
			return true
		}
	}
	return false
}

// Trim removes the checkpoint directory and everything in it.
func Trim(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("could not trim '%s': %w", path, err)
	}
	return nil
}

// Filter checks checkpoint directories and optionally trims the incomplete ones.
// Checks and trims of the same path are serialized.
type Filter struct {
	mutex *sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewFilter creates a new checkpoint filter.
func NewFilter() *Filter {
	return &Filter{
		mutex: new(sync.Mutex),
		locks: make(map[string]*sync.RWMutex),
	}
}

func (f *Filter) lock(path string) *sync.RWMutex {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	p := filepath.Clean(path)
	l, ok := f.locks[p]
	if !ok {
		l = new(sync.RWMutex)
		f.locks[p] = l
	}
	return l
}

// IsComplete checks the directory while no trim of it is in progress.
func (f *Filter) IsComplete(path string) bool {
	l := f.lock(path)
	l.RLock()
	defer l.RUnlock()
	ok := IsComplete(path)
	if ok {
		metrics.Observer.Checkpoint(metrics.Complete)
	} else {
		metrics.Observer.Checkpoint(metrics.Incomplete)
	}
	return ok
}

// Check reports whether the checkpoint is complete.
// Only if trim is set, an incomplete checkpoint is removed.
func (f *Filter) Check(path string, trim bool) (bool, error) {
	if !trim {
		return f.IsComplete(path), nil
	}
	l := f.lock(path)
	l.Lock()
	defer l.Unlock()
	if IsComplete(path) {
		metrics.Observer.Checkpoint(metrics.Complete)
		return true, nil
	}
	metrics.Observer.Checkpoint(metrics.Incomplete)
	log.Warn().Str("path", path).Msg("trimming folder because of missing files")
	if err := Trim(path); err != nil {
		return false, err
	}
	metrics.Observer.Checkpoint(metrics.Trimmed)
	return false, nil
}

var defaultFilter = NewFilter()

// Check checks the checkpoint with the package wide filter.
func Check(path string, trim bool) (bool, error) {
	return defaultFilter.Check(path, trim)
}
