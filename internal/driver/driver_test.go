package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/drakos74/bitrate/infra/config"
	"github.com/drakos74/bitrate/internal/checkpoint"
	"github.com/drakos74/bitrate/internal/model"
	"github.com/drakos74/bitrate/internal/oracle"
	"github.com/drakos74/bitrate/internal/report"
	"github.com/drakos74/bitrate/internal/selector"
	"github.com/drakos74/bitrate/internal/storage/file/json"
	"github.com/drakos74/bitrate/internal/vq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2010, 3, 27, 22, 50, 3, 0, time.UTC)

func writeTracks(t *testing.T, dir string) {
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	for track := 0; track < 2; track++ {
		lines := make([]string, 12)
		for i := range lines {
			values := make([]string, oracle.ChromaBins)
			for c := range values {
				values[c] = "0"
			}
			values[(i+track)%oracle.ChromaBins] = "1"
			lines[i] = strings.Join(values, ",")
		}
		path := filepath.Join(dir, fmt.Sprintf("track_%d.csv", track))
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))
	}
}

// codebook creates a codebook of the given size and dimension with every codeword set to value.
func codebook(t *testing.T, size, dim int, value float64) *vq.Codebook {
	codewords := make([][]float64, size)
	for i := range codewords {
		codewords[i] = make([]float64, dim)
		for j := range codewords[i] {
			codewords[i][j] = value
		}
	}
	cb, err := vq.New(codewords)
	require.NoError(t, err)
	return cb
}

func save(t *testing.T, expDir string, cb *vq.Codebook, psize int, offset time.Duration) string {
	params := model.Params{PatternSize: psize, UseBars: 1}
	stats := model.Stats{StartTime: start, SaveTime: start.Add(offset)}
	dir, err := checkpoint.Save(json.NewFileStorage(false), expDir, cb, params, stats)
	require.NoError(t, err)
	return dir
}

func newDriver(cfg config.Config, valid, test string) *Driver {
	store := json.NewFileStorage(false)
	filter := checkpoint.NewFilter()
	sel := selector.New(oracle.NewFiles(), vq.NewLoader(store), filter, valid, test)
	return New(cfg, sel, store, filter)
}

func TestDriver_Run(t *testing.T) {

	root := t.TempDir()
	data := filepath.Join(root, "data")
	writeTracks(t, data)

	small := filepath.Join(root, "set1exp1")
	save(t, small, codebook(t, 2, 12, 10), 1, time.Minute)
	best := save(t, small, codebook(t, 2, 12, 0), 1, time.Hour)

	large := filepath.Join(root, "set1exp2")
	save(t, large, codebook(t, 4, 24, 0.1), 2, time.Minute)

	other := filepath.Join(root, "set2exp1")
	save(t, other, codebook(t, 3, 12, 0), 1, time.Minute)

	empty := filepath.Join(root, "set3exp1")
	require.NoError(t, os.MkdirAll(filepath.Join(empty, "exp_broken"), os.ModePerm))

	cfg := config.Default()
	cfg.Progress = false
	cfg.Workers = 2
	cfg.Plot = filepath.Join(root, "curves.png")
	output := filepath.Join(root, "results.txt")

	summary, err := newDriver(cfg, data, data).Run([]string{small, large, empty, other}, output)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.Run)
	assert.Equal(t, []string{empty}, summary.Skipped)
	require.Equal(t, 3, len(summary.Results))
	assert.Equal(t, best, summary.Results[0].Source)
	assert.Equal(t, 1, summary.Results[0].PatternSize)
	assert.Equal(t, 2, summary.Results[0].CodebookSize)
	assert.Equal(t, 2, summary.Results[1].PatternSize)
	assert.Equal(t, 4, summary.Results[1].CodebookSize)

	// popped from the end: (1,3) first, then (2,4) joined by (1,2)
	require.Equal(t, 2, len(summary.Classes))
	assert.Equal(t, model.Class{summary.Results[2]}, summary.Classes[0])
	assert.Equal(t, model.Class{summary.Results[1], summary.Results[0]}, summary.Classes[1])

	classes, err := Replot(output, "")
	require.NoError(t, err)
	require.Equal(t, len(summary.Classes), len(classes))
	for i, class := range classes {
		for j, r := range class {
			assert.Equal(t, summary.Classes[i][j].PatternSize, r.PatternSize)
			assert.Equal(t, summary.Classes[i][j].CodebookSize, r.CodebookSize)
			assert.Equal(t, summary.Classes[i][j].Distortion, r.Distortion)
		}
	}

	_, err = os.Stat(cfg.Plot)
	assert.NoError(t, err)

	// the broken checkpoint is never trimmed by default
	_, err = os.Stat(filepath.Join(empty, "exp_broken"))
	assert.NoError(t, err)
}

func TestDriver_Trim(t *testing.T) {

	root := t.TempDir()
	data := filepath.Join(root, "data")
	writeTracks(t, data)

	expDir := filepath.Join(root, "exp")
	save(t, expDir, codebook(t, 2, 12, 0), 1, time.Minute)
	broken := filepath.Join(expDir, "exp_broken")
	require.NoError(t, os.MkdirAll(broken, os.ModePerm))

	cfg := config.Default()
	cfg.Progress = false
	cfg.Trim = true

	result, err := newDriver(cfg, data, data).Evaluate(expDir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CodebookSize)

	_, err = os.Stat(broken)
	assert.True(t, os.IsNotExist(err))
}

func TestDriver_Empty(t *testing.T) {

	root := t.TempDir()
	output := filepath.Join(root, "results.txt")

	cfg := config.Default()
	cfg.Progress = false

	summary, err := newDriver(cfg, root, root).Run([]string{}, output)
	require.NoError(t, err)
	assert.Empty(t, summary.Classes)

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, report.PlotStart+"\n"+report.PlotDone+"\n", string(b))
}

func TestDriver_Fatal(t *testing.T) {

	root := t.TempDir()
	expDir := filepath.Join(root, "exp")
	save(t, expDir, codebook(t, 2, 12, 0), 1, time.Minute)

	cfg := config.Default()
	cfg.Progress = false

	// no data at all
	emptyData := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(emptyData, os.ModePerm))

	_, err := newDriver(cfg, emptyData, emptyData).Run([]string{expDir}, filepath.Join(root, "results.txt"))
	assert.True(t, errors.Is(err, selector.EmptyDatasetErr), "unexpected error: %v", err)

	_, err = os.Stat(filepath.Join(root, "results.txt"))
	assert.True(t, os.IsNotExist(err))
}
