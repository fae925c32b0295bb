// Command tbe computes Transfer Bootstrap Expectation (or classical
// Felsenstein) branch support for a reference tree against a set of
// bootstrap replicate trees.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/gaissmai/tbe"
)

const (
	exitSuccess = 0
	exitFatal   = 1
	exitUsage   = 2
)

const versionString = "tbe version 0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		refPath     string
		repPath     string
		outPath     string
		algoFlag    string
		workers     int
		statsPath   string
		seed        int64
		quiet       bool
		showVersion bool
		showHelp    bool
	)

	flags := pflag.NewFlagSet("tbe", pflag.ContinueOnError)
	flags.StringVarP(&refPath, "reference", "i", "", "reference tree (Newick)")
	flags.StringVarP(&repPath, "bootstrap", "b", "", "replicate trees, ';'-terminated, one after another")
	flags.StringVarP(&outPath, "output", "o", "", "output tree path (default stdout)")
	flags.StringVarP(&algoFlag, "algorithm", "a", "tbe", "support algorithm: tbe or fbp")
	flags.IntVarP(&workers, "workers", "@", 1, "worker goroutines")
	flags.StringVarP(&statsPath, "stats", "S", "", "optional per-branch stats CSV path")
	flags.Int64VarP(&seed, "seed", "s", 0, "PRNG seed (reserved for future random-shuffle modes)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress progress logging")
	flags.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	flags.BoolVarP(&showHelp, "help", "h", false, "print usage and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	if showHelp {
		fmt.Fprintln(os.Stderr, "Usage of tbe:")
		flags.PrintDefaults()
		return exitSuccess
	}
	if showVersion {
		fmt.Println(versionString)
		return exitSuccess
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if quiet {
		logger = logger.Level(zerolog.Disabled)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	_ = seed // no random-shuffle mode reads this in the current build

	var algo tbe.Algorithm
	switch strings.ToLower(algoFlag) {
	case "tbe", "":
		algo = tbe.AlgorithmTBE
	case "fbp":
		algo = tbe.AlgorithmFBP
	default:
		logger.Error().Str("algorithm", algoFlag).Msg("unknown -a value, want tbe or fbp")
		return exitUsage
	}

	if refPath == "" || repPath == "" {
		logger.Error().Msg("-i and -b are both required")
		return exitUsage
	}

	refTree, taxa, err := loadReference(refPath)
	if err != nil {
		logger.Error().Err(err).Str("path", refPath).Msg("could not load reference tree")
		return exitFatal
	}

	repData, err := os.ReadFile(repPath)
	if err != nil {
		logger.Error().Err(err).Str("path", repPath).Msg("could not read replicate file")
		return exitFatal
	}

	orch := tbe.New(refTree,
		tbe.WithWorkers(workers),
		tbe.WithAlgorithm(algo),
		tbe.WithLogger(logger),
	)

	replicates := make(chan tbe.ReplicateOrErr)
	go feedReplicates(repData, taxa, replicates)

	result, err := orch.Run(context.Background(), replicates)
	if err != nil {
		logger.Error().Err(err).Msg("run aborted")
		return exitFatal
	}

	logger.Info().
		Int("replicates", result.Count).
		Str("algorithm", algo.String()).
		Msg("run complete")

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		logger.Error().Err(err).Str("path", outPath).Msg("could not open output")
		return exitFatal
	}
	defer closeOut()

	if err := refTree.Emit(out); err != nil {
		logger.Error().Err(err).Msg("could not write output tree")
		return exitFatal
	}
	fmt.Fprintln(out)

	if statsPath != "" {
		if err := writeStats(statsPath, refTree, result); err != nil {
			logger.Error().Err(err).Str("path", statsPath).Msg("could not write stats file")
			return exitFatal
		}
	}

	return exitSuccess
}

// loadReference parses the reference tree and freezes its taxon table —
// every replicate parsed afterwards is checked against it, per §3.
func loadReference(path string) (*tbe.Tree, *tbe.TaxonTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	taxa := tbe.NewTaxonTable()
	ref, err := tbe.Parse(f, taxa)
	if err != nil {
		return nil, nil, err
	}
	taxa.Freeze()
	return ref, taxa, nil
}

// feedReplicates splits raw replicate-file text into individual
// ';'-terminated Newick blocks and parses each one independently,
// sending either the resulting tree or its parse error — §7's
// skip-on-error policy is applied downstream by the orchestrator, not
// here.
func feedReplicates(data []byte, taxa *tbe.TaxonTable, out chan<- tbe.ReplicateOrErr) {
	defer close(out)
	for _, block := range splitTrees(string(data)) {
		r, err := tbe.Parse(strings.NewReader(block), taxa)
		out <- tbe.ReplicateOrErr{Tree: r, Err: err}
	}
}

// splitTrees breaks text on ';', discarding blank segments (blank
// lines and surrounding whitespace between replicate blocks) and
// restoring the terminator each surviving block needs to parse.
func splitTrees(data string) []string {
	var out []string
	for _, part := range strings.Split(data, ";") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed+";")
	}
	return out
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// writeStats emits the optional per-branch report of §6: one row per
// internal reference edge, as plain CSV — the one ambient concern this
// repository serves from the standard library rather than a
// third-party dependency (see DESIGN.md).
func writeStats(path string, ref *tbe.Tree, result *tbe.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"edge_id", "topological_depth", "mean_min_dist", "normalised_support"}); err != nil {
		return err
	}

	for i := 0; i < ref.NumEdges(); i++ {
		if ref.EdgeIsTerminal(i) {
			continue
		}
		meanMinDist := "NA"
		if result.SumMinDist != nil && result.Count > 0 {
			meanMinDist = strconv.FormatFloat(float64(result.SumMinDist[i])/float64(result.Count), 'f', 6, 64)
		}
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(int(ref.EdgeTopoDepth(i))),
			meanMinDist,
			strconv.FormatFloat(result.Support[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
