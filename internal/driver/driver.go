package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/drakos74/bitrate/infra/config"
	"github.com/drakos74/bitrate/internal/checkpoint"
	"github.com/drakos74/bitrate/internal/metrics"
	"github.com/drakos74/bitrate/internal/model"
	"github.com/drakos74/bitrate/internal/plot"
	"github.com/drakos74/bitrate/internal/rate"
	"github.com/drakos74/bitrate/internal/report"
	"github.com/drakos74/bitrate/internal/selector"
	"github.com/drakos74/bitrate/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// Summary is the outcome of an aggregation run.
type Summary struct {
	Run     string
	Results []model.Result
	Skipped []string
	Classes []model.Class
}

// Driver evaluates many experiment directories and classifies their results.
type Driver struct {
	cfg      config.Config
	selector *selector.Selector
	store    storage.Persistence
	filter   *checkpoint.Filter
}

// New creates a new driver.
func New(cfg config.Config, sel *selector.Selector, store storage.Persistence, filter *checkpoint.Filter) *Driver {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Driver{
		cfg:      cfg,
		selector: sel,
		store:    store,
		filter:   filter,
	}
}

// Evaluate selects the best checkpoint of one experiment directory.
// It returns selector.NoCheckpointErr if the directory has nothing to evaluate.
func (d *Driver) Evaluate(expDir string) (model.Result, error) {
	if d.cfg.Trim {
		if err := d.trim(expDir); err != nil {
			return model.Result{}, err
		}
	}
	candidates, err := d.selector.Candidates(expDir)
	if err != nil {
		return model.Result{}, err
	}
	params, err := selector.LastParams(d.store, candidates)
	if err != nil {
		return model.Result{}, err
	}
	return d.selector.Select(expDir, params)
}

func (d *Driver) trim(expDir string) error {
	entries, err := os.ReadDir(expDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not read experiment dir '%s': %w", expDir, err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), checkpoint.Prefix) {
			if _, err := d.filter.Check(filepath.Join(expDir, e.Name()), true); err != nil {
				return err
			}
		}
	}
	return nil
}

// Collect evaluates all experiment directories and returns the results in the given order.
// Directories without any checkpoint are skipped, any other error aborts the run.
func (d *Driver) Collect(expDirs []string) ([]model.Result, []string, error) {
	slots := make([]*model.Result, len(expDirs))
	errs := make([]error, len(expDirs))

	bar := d.progress(len(expDirs))
	indexes := make(chan int)
	wg := new(sync.WaitGroup)
	for w := 0; w < d.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				log.Info().Str("dir", expDirs[i]).Msg("doing exp dir")
				result, err := d.Evaluate(expDirs[i])
				if err == nil {
					slots[i] = &result
				} else {
					errs[i] = err
				}
				_ = bar.Add(1)
			}
		}()
	}
	for i := range expDirs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	_ = bar.Finish()

	results := make([]model.Result, 0, len(expDirs))
	skipped := make([]string, 0)
	for i, dir := range expDirs {
		switch {
		case errs[i] == nil:
			metrics.Observer.Experiment(metrics.Selected)
			results = append(results, *slots[i])
		case errors.Is(errs[i], selector.NoCheckpointErr):
			metrics.Observer.Experiment(metrics.Skipped)
			log.Warn().Str("dir", dir).Msg("no saved model found")
			skipped = append(skipped, dir)
		default:
			return nil, nil, fmt.Errorf("could not evaluate '%s': %w", dir, errs[i])
		}
	}
	return results, skipped, nil
}

func (d *Driver) progress(n int) *progressbar.ProgressBar {
	if d.cfg.Progress {
		return progressbar.Default(int64(n), "experiments")
	}
	return progressbar.DefaultSilent(int64(n), "experiments")
}

// Run evaluates the experiment directories, classifies the results and writes the report to output.
func (d *Driver) Run(expDirs []string, output string) (Summary, error) {
	summary := Summary{
		Run: uuid.New().String(),
	}
	log.Info().Str("run", summary.Run).Strs("dirs", expDirs).Msg("experiment dirs")

	results, skipped, err := d.Collect(expDirs)
	if err != nil {
		return summary, err
	}
	summary.Results = results
	summary.Skipped = skipped
	log.Info().Str("run", summary.Run).Int("results", len(results)).Int("skipped", len(skipped)).Msg("collected results")

	// results are popped from the end of the collection
	summary.Classes = rate.Classify(rate.Reversed(results))
	log.Info().Str("run", summary.Run).Int("classes", len(summary.Classes)).Msg("bitrates found")

	if err := report.WriteFile(output, summary.Classes); err != nil {
		return summary, err
	}
	log.Info().Str("run", summary.Run).Str("output", output).Msg("report written")

	if d.cfg.Plot != "" {
		if err := plot.Save(d.cfg.Plot, summary.Classes); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// Replot reconstructs the classes from a report and renders them if a plot file is given.
func Replot(path string, plotFile string) ([]model.Class, error) {
	log.Info().Str("report", path).Msg("plotting from file")
	classes, err := report.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if plotFile != "" {
		if err := plot.Save(plotFile, classes); err != nil {
			return nil, err
		}
	}
	return classes, nil
}
