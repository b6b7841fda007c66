// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package encode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/batch"
	"github.com/benchline/benchline/cmd/benchline/commands/utils"
	"github.com/benchline/benchline/lineprotocol"
	"github.com/benchline/benchline/localstore"
	"github.com/benchline/benchline/log"
	"github.com/benchline/benchline/source"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli"
	"k8s.io/klog/v2"
)

// outputRefs names the output file of each section.
var outputRefs = map[types.Section]string{
	types.SectionSummary:   "lines.txt",
	types.SectionHistogram: "histogram.txt",
	types.SectionDetails:   "points.txt",
}

// Command represents encode subcommand.
var Command = cli.Command{
	Name:  "encode",
	Usage: "Encode run files from a directory into line protocol",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to the encode profile (YAML)",
		},
		cli.StringFlag{
			Name:  "input-dir",
			Usage: "Directory which contains run files",
			Value: ".",
		},
		cli.StringFlag{
			Name:  "pattern",
			Usage: "Pattern of run files relative to --input-dir (** matches recursively)",
			Value: source.DefaultPattern,
		},
		cli.StringFlag{
			Name:  "output-dir",
			Usage: "Directory which receives lines.txt, histogram.txt and points.txt. Stdout if empty",
		},
		cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite existing output files",
		},
		cli.BoolFlag{
			Name:  "append",
			Usage: "Append lines to existing output files",
		},
		cli.IntFlag{
			Name:  "max-records",
			Usage: "Maximum number of run files in one batch. It can override corresponding value defined by --config",
			Value: types.DefaultMaxRecords,
		},
		cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of run files encoded at the same time. It can override corresponding value defined by --config",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "histogram-mode",
			Usage: "How histogram buckets become points (aggregate or sample). It can override corresponding value defined by --config",
			Value: string(types.HistogramModeAggregate),
		},
		cli.StringSliceFlag{
			Name:  "section",
			Usage: "Section to emit (summary, histogram or details). Repeatable. All sections if not set",
		},
		cli.StringSliceFlag{
			Name:  "tag",
			Usage: "Static tag added to every point (FORMAT: KEY=VALUE). Repeatable",
		},
	},
	Action: func(cliCtx *cli.Context) error {
		profile, err := utils.LoadEncodeProfile(cliCtx)
		if err != nil {
			return err
		}

		mode, err := outputModeFromFlags(cliCtx.Bool("force"), cliCtx.Bool("append"))
		if err != nil {
			return err
		}

		inputDir := cliCtx.String("input-dir")
		paths, err := source.Discover(inputDir, cliCtx.String("pattern"))
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			klog.V(0).InfoS("No run file found", "dir", inputDir, "pattern", cliCtx.String("pattern"))
			return nil
		}

		enc, err := batch.NewEncoder(profile.Spec)
		if err != nil {
			return err
		}

		ctx := log.WithLogger(context.Background(), log.NewLogger(2))
		res := enc.Encode(ctx, source.Load(inputDir, paths))

		sections := profile.Spec.EnabledSections()
		if outDir := cliCtx.String("output-dir"); outDir != "" {
			err = writeOutputs(outDir, sections, &res.Lines, mode)
		} else {
			err = writeStream(os.Stdout, sections, &res.Lines)
		}
		if err != nil {
			return err
		}

		if ferr := res.Err(); ferr != nil {
			klog.V(0).ErrorS(ferr, "Some run files were not encoded", "failed", len(res.Failures))
		}
		return renderEncodeReport(os.Stderr, res.Report())
	},
}

// outputMode decides what happens to existing output files.
type outputMode int

const (
	// outputModeCreate fails if any output file exists.
	outputModeCreate outputMode = iota
	// outputModeOverwrite replaces existing output files.
	outputModeOverwrite
	// outputModeAppend adds lines after existing content.
	outputModeAppend
)

func outputModeFromFlags(force, appendLines bool) (outputMode, error) {
	switch {
	case force && appendLines:
		return outputModeCreate, fmt.Errorf("--force and --append are mutually exclusive")
	case force:
		return outputModeOverwrite, nil
	case appendLines:
		return outputModeAppend, nil
	default:
		return outputModeCreate, nil
	}
}

// writeOutputs commits one file per section into outDir. Sections without
// lines produce no file. In outputModeCreate, nothing is written if any
// output file already exists.
func writeOutputs(outDir string, sections []types.Section, lines *lineprotocol.Lines, mode outputMode) error {
	store, err := localstore.NewStore(outDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if mode == outputModeCreate {
		if err := checkOutputs(store, sections, lines); err != nil {
			return err
		}
	}

	for _, s := range sections {
		sectionLines := lines.Section(s)
		if len(sectionLines) == 0 {
			continue
		}

		ref := outputRefs[s]
		data := utils.JoinLines(sectionLines)
		if mode == outputModeAppend {
			existing, err := localstore.ReadBlob(store, ref)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to read %s: %w", ref, err)
			}
			data = append(existing, data...)
		}

		if err := localstore.WriteBlob(store, ref, data, mode != outputModeCreate); err != nil {
			return fmt.Errorf("failed to write %s: %w", ref, err)
		}
		klog.V(0).InfoS("Wrote output", "section", s, "file", ref, "lines", len(sectionLines))
	}
	return nil
}

// checkOutputs returns an error if a section with lines already has its
// output file in store.
func checkOutputs(store *localstore.Store, sections []types.Section, lines *lineprotocol.Lines) error {
	for _, s := range sections {
		if len(lines.Section(s)) == 0 {
			continue
		}

		ref := outputRefs[s]
		r, err := store.OpenReader(ref)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		size := r.Size()
		r.Close()

		return fmt.Errorf("%s exists (%d bytes), use --force or --append: %w", ref, size, localstore.ErrAlreadyExists)
	}
	return nil
}

// writeStream writes sections in order into w.
func writeStream(w io.Writer, sections []types.Section, lines *lineprotocol.Lines) error {
	for _, s := range sections {
		if _, err := w.Write(utils.JoinLines(lines.Section(s))); err != nil {
			return fmt.Errorf("failed to write %s lines: %w", s, err)
		}
	}
	return nil
}

// renderEncodeReport renders the batch report into w.
func renderEncodeReport(w io.Writer, report *types.EncodeReport) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
