// Command sparql-select runs a SPARQL SELECT query against a Turtle file
// and writes the normalized result table as CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/kgflow/kgflow/kg"
	"github.com/kgflow/kgflow/kg/results"
	"github.com/kgflow/kgflow/kg/sparql"
	"github.com/kgflow/kgflow/kg/turtle"
)

func main() {
	var queryPath string
	var inputPath string
	var outPath string

	flag.StringVar(&queryPath, "q", "", "SPARQL SELECT query file (required)")
	flag.StringVar(&inputPath, "i", "", "Turtle input file (required)")
	flag.StringVar(&outPath, "o", "", "CSV output file, stdout when empty")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -q query.sparql -i graph.ttl [-o results.csv]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if queryPath == "" || inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(queryPath, inputPath, outPath); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func run(queryPath, inputPath, outPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := turtle.NewStore(logger)

	graph, err := store.Read(inputPath)
	if err != nil {
		return err
	}

	queryBytes, err := os.ReadFile(queryPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &kg.NotFoundError{Path: queryPath}
		}
		return err
	}

	engine := sparql.NewEngine(logger)
	res, err := engine.Select(graph, string(queryBytes))
	if err != nil {
		return err
	}
	table, err := results.Normalize(res, graph.Namespaces())
	if err != nil {
		return err
	}

	if outPath == "" {
		return table.WriteCSV(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return &kg.WriteError{Path: outPath, Err: err}
	}
	if err := table.WriteCSV(f); err != nil {
		f.Close()
		return &kg.WriteError{Path: outPath, Err: err}
	}
	return f.Close()
}
