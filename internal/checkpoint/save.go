package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/drakos74/bitrate/internal/model"
	"github.com/drakos74/bitrate/internal/storage"
)

const timeLayout = "2006_01_02_AT_15h04m05s"

// DirName returns the checkpoint directory name for the given save time.
func DirName(t time.Time) string {
	return Prefix + t.Format(timeLayout)
}

// StartTimeFile returns the marker file name for the given start time.
func StartTimeFile(t time.Time) string {
	return fmt.Sprintf("starttime_%s.txt", t.Format(timeLayout))
}

// Save stores a new checkpoint within the experiment directory and returns its path.
func Save(store storage.Persistence, expDir string, m interface{}, params model.Params, stats model.Stats) (string, error) {
	if err := os.MkdirAll(expDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("could not create experiment dir '%s': %w", expDir, err)
	}
	name := DirName(stats.SaveTime)
	dir := filepath.Join(expDir, name)
	for i := 1; ; i++ {
		err := os.Mkdir(dir, os.ModePerm)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("could not create checkpoint dir '%s': %w", dir, err)
		}
		dir = filepath.Join(expDir, fmt.Sprintf("%s_%d", name, i))
	}

	if err := store.Store(storage.NewKey(dir, storage.ModelArtifact), m); err != nil {
		return dir, fmt.Errorf("could not save model: %w", err)
	}
	if err := store.Store(storage.NewKey(dir, storage.ParamsArtifact), params); err != nil {
		return dir, fmt.Errorf("could not save params: %w", err)
	}
	if err := store.Store(storage.NewKey(dir, storage.StatsArtifact), stats); err != nil {
		return dir, fmt.Errorf("could not save stats: %w", err)
	}
	// the marker goes last, a checkpoint without it is incomplete
	f, err := os.Create(filepath.Join(dir, StartTimeFile(stats.StartTime)))
	if err != nil {
		return dir, fmt.Errorf("could not create start time marker: %w", err)
	}
	return dir, f.Close()
}

// LoadParams loads the parameters of the given checkpoint.
func LoadParams(store storage.Persistence, dir string) (model.Params, error) {
	var params model.Params
	if err := store.Load(storage.NewKey(dir, storage.ParamsArtifact), &params); err != nil {
		return params, fmt.Errorf("could not load params from '%s': %w", dir, err)
	}
	return params, nil
}

// LoadStats loads the training statistics of the given checkpoint.
func LoadStats(store storage.Persistence, dir string) (model.Stats, error) {
	var stats model.Stats
	if err := store.Load(storage.NewKey(dir, storage.StatsArtifact), &stats); err != nil {
		return stats, fmt.Errorf("could not load stats from '%s': %w", dir, err)
	}
	return stats, nil
}
