package oracle

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/drakos74/bitrate/internal/model"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

const Ext = ".csv"

// Files reads beat-chroma tracks from csv files.
// Every file is one track with one beat per line and one column per chroma bin.
type Files struct {
}

// NewFiles creates a new file source.
func NewFiles() *Files {
	return &Files{}
}

func (f Files) Open(params model.Params, location string) (Stream, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, fmt.Errorf("could not read data dir '%s': %w", location, err)
	}
	files := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Ext) {
			files = append(files, filepath.Join(location, e.Name()))
		}
	}
	sort.Strings(files)
	log.Debug().Str("location", location).Int("files", len(files)).Msg("opened data source")
	return &fileStream{
		params: params,
		files:  files,
	}, nil
}

type fileStream struct {
	params model.Params
	files  []string
	index  int
}

func (s *fileStream) Next() (*mat.Dense, bool, error) {
	if s.index >= len(s.files) {
		return nil, false, nil
	}
	path := s.files[s.index]
	s.index++
	chroma, err := ReadChroma(path)
	if err != nil {
		return nil, true, err
	}
	if chroma == nil {
		return nil, true, nil
	}
	patterns, err := Patterns(chroma, s.params)
	if err != nil {
		return nil, true, fmt.Errorf("could not extract patterns from '%s': %w", path, err)
	}
	return patterns, true, nil
}

func (s *fileStream) Reset() {
	s.index = 0
}

// ReadChroma reads the beat-chroma matrix of a track.
// An empty file gives a nil matrix.
func ReadChroma(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat '%s': %w", path, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float))
	if df.Err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", path, df.Err)
	}

	beats, bins := df.Dims()
	if beats == 0 {
		return nil, nil
	}
	if bins != ChromaBins {
		return nil, fmt.Errorf("expected %d chroma bins in '%s' but found %d", ChromaBins, path, bins)
	}
	chroma := mat.NewDense(beats, bins, nil)
	for i := 0; i < beats; i++ {
		for j := 0; j < bins; j++ {
			v := df.Elem(i, j).Float()
			if math.IsNaN(v) {
				return nil, fmt.Errorf("invalid value at line %d column %d of '%s'", i+1, j+1, path)
			}
			chroma.Set(i, j, v)
		}
	}
	return chroma, nil
}
