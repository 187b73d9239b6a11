package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/kgflow/kgflow/kg"
	"github.com/kgflow/kgflow/kg/reason"
	"github.com/kgflow/kgflow/kg/results"
	"github.com/kgflow/kgflow/kg/sparql"
	"github.com/kgflow/kgflow/kg/turtle"
)

func main() {
	var inputPath string
	var queryPath string
	var outPath string
	var reasonerName string
	var cachePath string
	var timeout time.Duration
	var verbose bool

	flag.StringVar(&inputPath, "input", "", "Turtle input file (required)")
	flag.StringVar(&queryPath, "query", "", "SPARQL SELECT query file (required)")
	flag.StringVar(&outPath, "out", "out.ttl", "path for the inferred graph")
	flag.StringVar(&reasonerName, "reasoner", "hermit", "reasoner passed to the backend")
	flag.StringVar(&cachePath, "cache", "", "directory for the inference cache (optional)")
	flag.DurationVar(&timeout, "timeout", 0, "reasoning timeout, 0 for none")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input graph.ttl -query query.sparql [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads a Turtle knowledge graph, runs an external OWL reasoner over it,\n")
		fmt.Fprintf(os.Stderr, "writes the inferred closure, and prints the results of a SPARQL query.\n\n")
		fmt.Fprintf(os.Stderr, "Environment:\n")
		fmt.Fprintf(os.Stderr, "  ROBOT              path to the robot executable (required)\n")
		fmt.Fprintf(os.Stderr, "  DEFAULT_NAMESPACE  default namespace bound when writing Turtle\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if inputPath == "" || queryPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, inputPath, queryPath, outPath, reasonerName, cachePath, timeout); err != nil {
		fail(err)
	}
}

func run(logger *slog.Logger, inputPath, queryPath, outPath, reasonerName, cachePath string, timeout time.Duration) error {
	store := turtle.NewStore(logger)

	logger.Info("reading turtle file", "path", inputPath)
	graph, err := store.Read(inputPath)
	if err != nil {
		return err
	}

	opts := reason.Options{Timeout: timeout, Logger: logger}
	if cachePath != "" {
		cache, err := reason.OpenCache(cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts.Cache = cache
	}
	bridge := reason.NewBridge(reason.NewRobotBackend(os.Getenv("ROBOT"), logger), opts)

	logger.Info("running reasoner", "reasoner", reasonerName)
	inferred, err := bridge.Infer(context.Background(), graph, reasonerName)
	if err != nil {
		return err
	}

	logger.Info("writing inferred graph", "path", outPath)
	writeOpts := turtle.WriteOptions{DefaultNamespace: os.Getenv("DEFAULT_NAMESPACE")}
	if err := store.Write(inferred, outPath, writeOpts); err != nil {
		return err
	}

	logger.Info("running SPARQL query", "path", queryPath)
	queryBytes, err := os.ReadFile(queryPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &kg.NotFoundError{Path: queryPath}
		}
		return err
	}

	engine := sparql.NewEngine(logger)
	res, err := engine.Select(inferred, string(queryBytes))
	if err != nil {
		return err
	}
	table, err := results.Normalize(res, inferred.Namespaces())
	if err != nil {
		return err
	}
	return table.Render(os.Stdout)
}

// fail reports a user-facing pipeline error as a single message and
// exits nonzero. Unexpected failures are logged verbatim for diagnosis.
func fail(err error) {
	var nf *kg.NotFoundError
	var pe *kg.ParseError
	var qe *kg.QueryError
	var ce *kg.ConfigurationError
	var re *kg.ReasoningError
	var te *kg.TimeoutError
	var we *kg.WriteError
	switch {
	case errors.As(err, &nf), errors.As(err, &pe), errors.As(err, &qe),
		errors.As(err, &ce), errors.As(err, &re), errors.As(err, &te),
		errors.As(err, &we):
		color.Red("error: %v", err)
	default:
		slog.Error("internal error", "error", err)
	}
	os.Exit(1)
}
