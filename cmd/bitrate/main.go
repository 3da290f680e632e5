package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/drakos74/bitrate/infra/config"
	"github.com/drakos74/bitrate/internal/checkpoint"
	"github.com/drakos74/bitrate/internal/driver"
	"github.com/drakos74/bitrate/internal/metrics"
	"github.com/drakos74/bitrate/internal/oracle"
	"github.com/drakos74/bitrate/internal/selector"
	"github.com/drakos74/bitrate/internal/storage/file/json"
	"github.com/drakos74/bitrate/internal/vq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	flagPlot    = flag.String("plot", "", "Report file to replot from, skipping the evaluation.")
	flagPng     = flag.String("png", "", "Image file to render the bitrate curves into.")
	flagConfig  = flag.String("config", "", "Json config file of the run.")
	flagWorkers = flag.Int("workers", 0, "Number of experiment dirs evaluated in parallel.")
	flagMetrics = flag.Int("metrics", 0, "Port to expose prometheus metrics on.")
	flagTrim    = flag.Bool("trim", false, "Remove incomplete saved models before the evaluation.")
	flagVerbose = flag.Bool("v", false, "Debug logging.")
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	flag.Usage = usage
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "usage:")
	fmt.Fprintln(out, "  bitrate [FLAGS] <valid dir> <test dir> <output> <exp1> .... <expN>")
	fmt.Fprintln(out, "  bitrate -plot <output>")
	fmt.Fprintln(out, "PARAMS:")
	fmt.Fprintln(out, "  <valid dir>    contains the csv files of the validation set")
	fmt.Fprintln(out, "   <test dir>    contains the csv files of the test set")
	fmt.Fprintln(out, "     <output>    text file for the results, something like results.txt")
	fmt.Fprintln(out, "      <exp..>    path to an experiment folder, \"set2exp12\" for instance")
	fmt.Fprintln(out, "FLAGS:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *flagConfig != "" {
		cfg = config.MustLoad(*flagConfig)
	}
	if *flagWorkers > 0 {
		cfg.Workers = *flagWorkers
	}
	if *flagMetrics > 0 {
		cfg.MetricsPort = *flagMetrics
	}
	if *flagPng != "" {
		cfg.Plot = *flagPng
	}
	cfg.Trim = cfg.Trim || *flagTrim
	cfg.Debug = cfg.Debug || *flagVerbose
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *flagPlot != "" {
		classes, err := driver.Replot(*flagPlot, cfg.Plot)
		if err != nil {
			log.Fatal().Err(err).Str("report", *flagPlot).Msg("could not replot")
		}
		fmt.Println(render(classes))
		return
	}

	args := flag.Args()
	if len(args) < 4 {
		usage()
		os.Exit(1)
	}
	validDir, testDir, output := args[0], args[1], args[2]
	expDirs := args[3:]

	if cfg.MetricsPort > 0 {
		metrics.Serve(cfg.MetricsPort)
	}

	store := json.NewFileStorage(cfg.Debug)
	filter := checkpoint.NewFilter()
	sel := selector.New(oracle.NewFiles(), vq.NewLoader(store), filter, validDir, testDir)

	summary, err := driver.New(cfg, sel, store, filter).Run(expDirs, output)
	if err != nil {
		log.Fatal().Err(err).Msg("could not evaluate experiments")
	}
	fmt.Println(render(summary.Classes))
}
