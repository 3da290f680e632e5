package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/drakos74/bitrate/internal/model"
	"github.com/drakos74/bitrate/internal/oracle"
	"github.com/drakos74/bitrate/internal/storage/file/json"
	"github.com/drakos74/bitrate/internal/trainer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	flagPSize   = flag.Int("psize", 8, "Pattern size in beats.")
	flagUseBars = flag.Int("usebars", 2, "Beats between two consecutive patterns.")
	flagKeyInv  = flag.Bool("keyinv", true, "Perform key invariance on patterns.")
	flagLRate   = flag.Float64("lrate", 1e-5, "Learning rate.")
	flagCodes   = flag.Int("codes", 16, "Codebook size.")
	flagEpochs  = flag.Int("epochs", 1, "Passes over the data.")
	flagEvery   = flag.Int("every", 0, "Save a checkpoint every that many updates, 0 saves at the end only.")
	flagKMeans  = flag.Int("kmeans", 30, "K-means iterations of the codebook initialisation.")
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "Train a codebook on beat-chroma data")
		fmt.Fprintln(out, "usage:")
		fmt.Fprintln(out, "   train [flags] <data dir> <expdir>")
		fmt.Fprintln(out, "INPUT")
		fmt.Fprintln(out, " <data dir>   contains the csv files to train on")
		fmt.Fprintln(out, " <expdir>     experiment directory, where to save experiments")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}
	dataDir, expDir := flag.Arg(0), flag.Arg(1)

	params := model.Params{
		PatternSize:  *flagPSize,
		UseBars:      *flagUseBars,
		KeyInvariant: *flagKeyInv,
		LearningRate: *flagLRate,
		Codes:        *flagCodes,
	}

	stream, err := oracle.NewFiles().Open(params, dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data", dataDir).Msg("could not open data")
	}

	saved, err := trainer.New(json.NewFileStorage(false), expDir, params).
		Epochs(*flagEpochs).
		Every(*flagEvery).
		Iterations(*flagKMeans).
		Run(stream)
	if err != nil {
		log.Fatal().Err(err).Strs("saved", saved).Msg("training failed")
	}
	log.Info().Str("expdir", expDir).Int("checkpoints", len(saved)).Msg("done")
}
