package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/bitrate/internal/storage"
	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestFileStorage_StoreAndLoad(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "exp_1")

	s := NewFileStorage(true)
	k := storage.NewKey(dir, storage.ParamsArtifact)

	err := s.Store(k, payload{Name: "p", Values: []float64{0.1, 2}})
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "params.json"))
	assert.NoError(t, err)

	var p payload
	err = s.Load(k, &p)
	assert.NoError(t, err)
	assert.Equal(t, "p", p.Name)
	assert.Equal(t, []float64{0.1, 2}, p.Values)

}

func TestFileStorage_Errors(t *testing.T) {

	dir := t.TempDir()
	s := NewFileStorage(false)

	var p payload
	err := s.Load(storage.NewKey(dir, storage.StatsArtifact), &p)
	assert.True(t, errors.Is(err, storage.NotFoundErr))

	err = os.WriteFile(filepath.Join(dir, "stats.json"), []byte("{not json"), 0644)
	assert.NoError(t, err)
	err = s.Load(storage.NewKey(dir, storage.StatsArtifact), &p)
	assert.True(t, errors.Is(err, storage.CouldNotLoadErr))

	// a file where the directory should be
	f := filepath.Join(dir, "file")
	assert.NoError(t, os.WriteFile(f, []byte{}, 0644))
	err = s.Store(storage.NewKey(f, storage.StatsArtifact), p)
	assert.Error(t, err)
}

func TestLocalStorage(t *testing.T) {

	s := NewLocalStorage()
	k := storage.NewKey("exp_1", storage.ModelArtifact)

	var p payload
	err := s.Load(k, &p)
	assert.True(t, errors.Is(err, storage.NotFoundErr))

	err = s.Store(k, payload{Name: "m"})
	assert.NoError(t, err)

	err = s.Load(k, &p)
	assert.NoError(t, err)
	assert.Equal(t, "m", p.Name)

}
