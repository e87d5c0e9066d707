// Command tbgl-link links a Trial Balance workbook against a General Ledger
// workbook from the command line and writes the cross-referenced result.
//
// Usage:
//
//	tbgl-link [-o linked.xlsx] [-threshold 0.8] [-mode netmovement|header] [-llm] tb.xlsx gl.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tuteke2023/tbgllink"
	"github.com/tuteke2023/tbgllink/llm"
	"github.com/tuteke2023/tbgllink/loader"
	"github.com/tuteke2023/tbgllink/writer"
)

func main() {
	output := flag.String("o", "linked.xlsx", "output workbook path")
	threshold := flag.Float64("threshold", 0, "match threshold override (0..1, 0 keeps the default)")
	mode := flag.String("mode", "netmovement", "link target: netmovement or header")
	useLLM := flag.Bool("llm", false, "use the Gemini analyzer with heuristic fallback")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: tbgl-link [flags] <trial-balance-file> <general-ledger-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	tbPath, glPath := flag.Arg(0), flag.Arg(1)

	// .env is optional
	_ = godotenv.Load()

	cfg := tbgllink.DefaultConfig()
	if *threshold != 0 {
		if *threshold < 0 || *threshold > 1 {
			log.Fatal().Float64("threshold", *threshold).Msg("threshold must be between 0 and 1")
		}
		cfg.MatchThreshold = *threshold
	}
	switch *mode {
	case "netmovement":
		cfg.Target = tbgllink.TargetNetMovement
	case "header":
		cfg.Target = tbgllink.TargetHeader
	default:
		log.Fatal().Str("mode", *mode).Msg("mode must be netmovement or header")
	}

	ctx := context.Background()

	var analyzer tbgllink.Analyzer
	if *useLLM {
		a, err := llm.NewAnalyzer(ctx, log)
		if err != nil {
			log.Warn().Err(err).Msg("analyzer unavailable, using heuristics only")
		} else {
			analyzer = a
		}
	}

	tbWorkbook, err := loader.Open(tbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", tbPath).Msg("failed to load trial balance")
	}
	glWorkbook, err := loader.Open(glPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", glPath).Msg("failed to load general ledger")
	}

	tbSheet := tbWorkbook.TBSheet()
	glSheet := glWorkbook.GLSheet()
	if tbSheet == nil || glSheet == nil {
		log.Fatal().Msg("workbook has no sheets")
	}
	log.Info().Str("tb_sheet", tbSheet.Name).Str("gl_sheet", glSheet.Name).Msg("loaded workbooks")

	result, err := tbgllink.LinkWithAnalyzer(ctx, tbSheet.Doc, glSheet.Doc, cfg, analyzer)
	if err != nil {
		log.Fatal().Err(err).Msg("linking failed")
	}

	matched := 0
	for _, ref := range result.CrossRefs {
		if ref.Matched {
			matched++
			log.Info().
				Int("tb_row", ref.TBRow).
				Str("tb_account", ref.TBAccount).
				Str("gl_account", ref.GLAccount).
				Str("display", ref.Display).
				Msg("matched")
		} else {
			log.Warn().
				Int("tb_row", ref.TBRow).
				Str("tb_account", ref.TBAccount).
				Msg("unmatched")
		}
	}
	log.Info().
		Int("matched", matched).
		Int("unmatched", len(result.CrossRefs)-matched).
		Int("gl_sections", len(result.Sections)).
		Msg("link complete")

	if ft, _ := loader.DetectFileType(tbPath); ft != loader.XLSX {
		log.Warn().Msg("trial balance is not XLSX, skipping workbook output")
		return
	}
	if err := writer.WriteLinkedFile(tbPath, glPath, *output, result); err != nil {
		log.Fatal().Err(err).Msg("failed to write linked workbook")
	}
	log.Info().Str("path", *output).Msg("wrote linked workbook")
}
