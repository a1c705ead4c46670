package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chazu/pipewright/pkg/backend"
	"github.com/chazu/pipewright/pkg/backend/facet"
	"github.com/chazu/pipewright/pkg/backend/sdfx"
	"github.com/chazu/pipewright/pkg/export"
)

func main() {
	var (
		output      = flag.String("o", "", "output 3MF path (default: scene name with .3mf)")
		backendName = flag.String("backend", "facet", "geometry backend: facet or sdfx")
		seed        = flag.Int64("seed", 0, "override the plan's random seed")
		quiet       = flag.Bool("q", false, "suppress growth progress output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: pipewright [flags] scene.lisp\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	scenePath := flag.Arg(0)

	var b backend.Backend
	switch *backendName {
	case "facet":
		b = facet.New()
	case "sdfx":
		b = sdfx.New()
	default:
		log.Fatalf("unknown backend %q (want facet or sdfx)", *backendName)
	}

	source, err := os.ReadFile(scenePath)
	if err != nil {
		log.Fatalf("read scene: %v", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *quiet {
		logger = nil
	}

	app := NewApp(b, logger)
	result, err := app.Generate(string(source), *seed)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", scenePath, e.Error())
		}
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(scenePath, ".lisp") + ".3mf"
	}
	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer f.Close()

	if err := export.Write3MF(f, result.Root); err != nil {
		log.Fatalf("write %s: %v", outPath, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close %s: %v", outPath, err)
	}

	for _, out := range result.Outcomes {
		fmt.Println(out)
	}
	fmt.Printf("wrote %s\n", outPath)
}
