package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drakos74/bitrate/internal/storage"
	"github.com/rs/zerolog/log"
)

// FileStorage keeps every artifact as a json file within its checkpoint directory.
type FileStorage struct {
	debug bool
}

// NewFileStorage creates a new json file storage.
func NewFileStorage(debug bool) *FileStorage {
	return &FileStorage{debug: debug}
}

func (s FileStorage) Store(k storage.Key, value interface{}) error {
	err := Save(k.Dir, k.File(), value)
	if err == nil && s.debug {
		log.Debug().Str("dir", k.Dir).Str("file", k.File()).Msg("stored json file")
	}
	return err
}

func (s FileStorage) Load(k storage.Key, value interface{}) error {
	return Load(k.Dir, k.File(), value)
}

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	// create the output file
	p := filepath.Join(filePath, fileName)
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", p, err)
	}
	defer f.Close()

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal '%s': %w", p, err)
	}

	// write the file
	_, err = f.Write(b)
	if err != nil {
		return fmt.Errorf("could not write bytes to file '%s' : %w", p, err)
	}

	return nil

}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {

	p := filepath.Join(filePath, fileName)

	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.NotFoundErr)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal '%s': %v: %w", p, err, storage.CouldNotLoadErr)
	}

	return nil
}
