// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package localstore

import (
	"fmt"
	"io"
	"os"
)

// sizeReadCloser implements Reader interface.
type sizeReadCloser struct {
	*os.File
	size int64
}

// Size returns file's size.
func (r *sizeReadCloser) Size() int64 {
	return r.size
}

// ReadBlob reads committed content named by ref.
func ReadBlob(s *Store, ref string) ([]byte, error) {
	r, err := s.OpenReader(ref)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// WriteBlob writes data as ref in one ingestion transcation. If overwrite is
// true, existing ref is deleted first.
func WriteBlob(s *Store, ref string, data []byte, overwrite bool) error {
	if overwrite {
		if err := s.Delete(ref); err != nil {
			return err
		}
	}

	w, err := s.OpenWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write ref %s: %w", ref, err)
	}
	return w.Commit(ref)
}
