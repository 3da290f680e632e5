package vq

import (
	"fmt"

	"github.com/drakos74/bitrate/internal/storage"
)

// Loader loads the model of a checkpoint directory.
type Loader interface {
	Load(dir string) (Model, error)
}

// LoaderFunc is a function acting as a Loader.
type LoaderFunc func(dir string) (Model, error)

func (f LoaderFunc) Load(dir string) (Model, error) {
	return f(dir)
}

// StorageLoader loads codebooks from the model artifact of the checkpoint.
type StorageLoader struct {
	store storage.Persistence
}

// NewLoader creates a loader on top of the given storage.
func NewLoader(store storage.Persistence) *StorageLoader {
	return &StorageLoader{store: store}
}

func (l *StorageLoader) Load(dir string) (Model, error) {
	cb := new(Codebook)
	if err := l.store.Load(storage.NewKey(dir, storage.ModelArtifact), cb); err != nil {
		return nil, fmt.Errorf("could not load model from '%s': %w", dir, err)
	}
	return cb, nil
}
