// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package utils

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/benchline/benchline/api/types"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

// LineTerminator is the platform's line terminator.
var LineTerminator = "\n"

func init() {
	if runtime.GOOS == "windows" {
		LineTerminator = "\r\n"
	}
}

// KeyValueMap converts key=value into map[string]string.
func KeyValueMap(strs []string) (map[string]string, error) {
	res := make(map[string]string, len(strs))
	for _, str := range strs {
		key, value, ok := strings.Cut(str, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value format, but got %s", str)
		}
		res[key] = value
	}
	return res, nil
}

// JoinLines joins lines, each followed by LineTerminator.
func JoinLines(lines []string) []byte {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString(LineTerminator)
	}
	return []byte(b.String())
}

// LoadEncodeProfile loads the profile from --config if set, applies flag
// overrides and validates it.
func LoadEncodeProfile(cliCtx *cli.Context) (*types.EncodeProfile, error) {
	profile := types.NewDefaultEncodeProfile()

	if cfgPath := cliCtx.String("config"); cfgPath != "" {
		cfgInRaw, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", cfgPath, err)
		}

		if err := yaml.Unmarshal(cfgInRaw, profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s from yaml format: %w", cfgPath, err)
		}
	}

	if err := ApplyFlags(cliCtx, &profile.Spec); err != nil {
		return nil, err
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// ApplyFlags overrides spec by flags which are set explicitly.
func ApplyFlags(cliCtx *cli.Context, spec *types.EncodeProfileSpec) error {
	if v := "max-records"; cliCtx.IsSet(v) {
		spec.MaxRecords = cliCtx.Int(v)
	}
	if v := "concurrency"; cliCtx.IsSet(v) {
		spec.Concurrency = cliCtx.Int(v)
	}
	if v := "histogram-mode"; cliCtx.IsSet(v) {
		spec.HistogramMode = types.HistogramMode(cliCtx.String(v))
	}
	if v := "section"; cliCtx.IsSet(v) {
		spec.Sections = spec.Sections[:0]
		for _, s := range cliCtx.StringSlice(v) {
			spec.Sections = append(spec.Sections, types.Section(s))
		}
	}
	if v := "tag"; cliCtx.IsSet(v) {
		tags, err := KeyValueMap(cliCtx.StringSlice(v))
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", v, err)
		}
		if spec.Tags == nil {
			spec.Tags = make(map[string]string, len(tags))
		}
		for k, val := range tags {
			spec.Tags[k] = val
		}
	}
	return nil
}
