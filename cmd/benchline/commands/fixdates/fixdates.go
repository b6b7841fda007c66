// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package fixdates

import (
	"fmt"
	"os"
	"time"

	"github.com/benchline/benchline/api/types"
	"github.com/benchline/benchline/record"
	"github.com/benchline/benchline/source"

	"github.com/urfave/cli"
	"k8s.io/klog/v2"
)

// Command represents fix-dates subcommand.
var Command = cli.Command{
	Name:  "fix-dates",
	Usage: "Rewrite run files' date to consecutive days of the current month",
	Flags: []cli.Flag{
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
		cli.IntFlag{
			Name:  "max-records",
			Usage: "Maximum number of run files to rewrite",
			Value: types.DefaultMaxRecords,
		},
	},
	Action: func(cliCtx *cli.Context) error {
		maxRecords := cliCtx.Int("max-records")
		if maxRecords <= 0 {
			return fmt.Errorf("max-records requires > 0: %v", maxRecords)
		}

		paths, err := source.Discover(cliCtx.String("input-dir"), cliCtx.String("pattern"))
		if err != nil {
			return err
		}

		now := time.Now()
		for idx, p := range paths {
			if idx >= maxRecords {
				klog.V(0).InfoS("Maximum reached, skipping", "file", p)
				continue
			}

			date := DayOfMonth(now, idx+1)
			if err := rewriteDate(p, date); err != nil {
				klog.ErrorS(err, "Failed to rewrite date", "file", p)
				continue
			}
			klog.V(2).InfoS("Rewrote date", "file", p, "date", date.Format(record.ISODateLayout))
		}
		return nil
	},
}

// DayOfMonth returns now moved to day of now's month. Days past the end of
// the month roll over into the next one.
func DayOfMonth(now time.Time, day int) time.Time {
	return time.Date(now.Year(), now.Month(), day,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
}

func rewriteDate(path string, date time.Time) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := record.SetDate(data, date)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, fi.Mode().Perm())
}
