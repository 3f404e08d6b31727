package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	ansi "github.com/k0kubun/go-ansi"
	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"

	trackeval "github.com/openvideolab/go-trackeval"
	"github.com/openvideolab/go-trackeval/labelio"
)

// progressStrategy wraps another strategy and advances the bar each time a
// unit finishes
type progressStrategy struct {
	inner trackeval.Strategy
	bar   *progressbar.ProgressBar
}

func (s *progressStrategy) NewAccumulator(video, category string) trackeval.Accumulator {
	return &progressAccumulator{
		Accumulator: s.inner.NewAccumulator(video, category),
		bar:         s.bar,
	}
}

type progressAccumulator struct {
	trackeval.Accumulator
	bar *progressbar.ProgressBar
}

func (a *progressAccumulator) Finalize() trackeval.Counts {
	counts := a.Accumulator.Finalize()
	a.bar.Add(1)
	return counts
}

func main() {

	gtFile := flag.String("gt", "", "ground truth frames JSON file")
	predFile := flag.String("pred", "", "predicted frames JSON file")
	cfgFile := flag.String("config", "", "category schema YAML file, defaults to the BDD100K box-track schema")
	workers := flag.Int("workers", 0, "number of parallel workers, 0 for number of CPUs")
	outFile := flag.String("out", "", "optional file to write the summary JSON to")
	flag.Parse()

	if *gtFile == "" || *predFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := trackeval.DefaultConfig()

	if *cfgFile != "" {
		var err error
		cfg, err = trackeval.LoadConfig(*cfgFile)
		if err != nil {
			log.Fatalf("error loading config: %v", err)
		}
	}

	gtFrames, err := labelio.Load(*gtFile)

	if err != nil {
		log.Fatalf("error loading ground truth: %v", err)
	}

	predFrames, err := labelio.Load(*predFile)

	if err != nil {
		log.Fatalf("error loading predictions: %v", err)
	}

	videos := labelio.BuildVideos(gtFrames, predFrames)

	bar := progressbar.NewOptions(len(videos)*len(cfg.CategoryNames()),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][MOT][reset] Evaluating tracks"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	result, err := trackeval.Evaluate(cfg, videos, &trackeval.Options{
		Workers:  *workers,
		Strategy: &progressStrategy{inner: trackeval.NewMOT(), bar: bar},
	})

	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}

	color.Output = ansi.NewAnsiStdout()

	fmt.Println()
	fmt.Println(result.Table())

	summary := result.Summary()
	colorstring.Printf("MOTA: [green]%.4f[reset], ", summary["MOTA"])
	colorstring.Printf("MOTP: [green]%.4f[reset], ", summary["MOTP"])
	colorstring.Printf("IDF1: [green]%.4f[reset]\n", summary["IDF1"])
	colorstring.Printf("mMOTA: [green]%.4f[reset], ", summary["mMOTA"])
	colorstring.Printf("mMOTP: [green]%.4f[reset], ", summary["mMOTP"])
	colorstring.Printf("mIDF1: [green]%.4f[reset]\n", summary["mIDF1"])

	if !result.Complete() {
		colorstring.Printf("[red]%d unit(s) excluded from fusion:[reset]\n", len(result.Failures()))
		for _, failure := range result.Failures() {
			colorstring.Printf("  [red]%s[reset]\n", failure)
		}
	}

	if *outFile != "" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			log.Fatalf("error encoding summary: %v", err)
		}
		if err := os.WriteFile(*outFile, data, 0644); err != nil {
			log.Fatalf("error writing summary: %v", err)
		}
	}
}
