// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/benchline/benchline/api/types"

	"github.com/mattn/go-zglob"
)

// DefaultPattern matches JSON files with "run" in their name.
const DefaultPattern = "*run*.json"

// Discover returns regular files under dir matching pattern, sorted by
// path. The pattern supports ** for recursive match.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", dir)
	}

	matches, err := zglob.Glob(filepath.Join(dir, pattern))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to match %s in %s: %w", pattern, dir, err)
	}

	res := make([]string, 0, len(matches))
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		res = append(res, m)
	}
	sort.Strings(res)
	return res, nil
}

// Load returns a run file per path. Content is read on first use, so paths
// that never get encoded are never read. The file name relative to dir
// identifies the run file in diagnostics.
func Load(dir string, paths []string) []types.RunFile {
	res := make([]types.RunFile, 0, len(paths))
	for _, p := range paths {
		p := p

		name, err := filepath.Rel(dir, p)
		if err != nil {
			name = filepath.Base(p)
		}
		res = append(res, types.RunFile{
			Name: name,
			Load: func() ([]byte, error) {
				data, err := os.ReadFile(p)
				if err != nil {
					return nil, fmt.Errorf("failed to read run file %s: %w", p, err)
				}
				return data, nil
			},
		})
	}
	return res
}
