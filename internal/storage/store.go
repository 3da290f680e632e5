package storage

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	ModelArtifact  = "model"
	ParamsArtifact = "params"
	StatsArtifact  = "stats"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of one artifact of a checkpoint.
type Key struct {
	Dir   string `json:"dir"`
	Label string `json:"label"`
}

// NewKey creates a key for the given artifact within a checkpoint directory.
func NewKey(dir, label string) Key {
	return Key{
		Dir:   dir,
		Label: label,
	}
}

// File returns the file name of the artifact.
func (k Key) File() string {
	return fmt.Sprintf("%s.json", k.Label)
}

// Path returns the full path of the artifact.
func (k Key) Path() string {
	return filepath.Join(k.Dir, k.File())
}

// Persistence stores and loads artifacts.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
