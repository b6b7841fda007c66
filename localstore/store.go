// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package localstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ingestingDirName holds uncommitted content under the root dir.
const ingestingDirName = ".ingesting"

// Store is a filesystem-like key/value storage for encoded output.
//
// Each key/value has committed and ingesting status. When OpenWriter returns
// ingestion transcation, the Store opens rootDir/.ingesting/$uuid file to
// receive value data. Once all the data is written, the Commit(ref) moves the
// file into rootDir/ref. Readers never observe partially written content.
type Store struct {
	sync.Mutex

	dataDir   string
	ingestDir string
}

// NewStore returns new instance of Store, creating rootDir if needed.
func NewStore(rootDir string) (*Store, error) {
	ingestDir := filepath.Join(rootDir, ingestingDirName)
	if err := os.MkdirAll(ingestDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to ensure dir %s: %w", ingestDir, err)
	}
	return &Store{
		dataDir:   rootDir,
		ingestDir: ingestDir,
	}, nil
}

// OpenWriter is to initiate a writing operation, ingestion transcation. A
// single ingestion transcation is to open temporary file and allow caller to
// write data into the temporary file. Once all the data is written, the caller
// should call Commit to complete ingestion transcation.
func (s *Store) OpenWriter() (Writer, error) {
	name := filepath.Join(s.ingestDir, uuid.NewString())

	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to open ingesting file: %w", err)
	}
	return &writer{s: s, name: name, f: f}, nil
}

// OpenReader is to open committed content named by ref.
func (s *Store) OpenReader(ref string) (Reader, error) {
	target, err := s.refPath(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("failed to open ref %s: %w", ref, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat ref %s: %w", ref, err)
	}
	return &sizeReadCloser{File: f, size: fi.Size()}, nil
}

// Delete is to delete committed content named by ref. Deleting missing ref
// is not an error.
func (s *Store) Delete(ref string) error {
	target, err := s.refPath(ref)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete ref %s: %w", ref, err)
	}
	return nil
}

// Close removes the ingesting dir if no transcation is in flight.
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	entries, err := os.ReadDir(s.ingestDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	return os.Remove(s.ingestDir)
}

// refPath returns the committed path of ref. Ref must be a plain file name.
func (s *Store) refPath(ref string) (string, error) {
	if ref == "" || ref == "." || ref == ".." || ref == ingestingDirName || filepath.Base(ref) != ref {
		return "", fmt.Errorf("invalid ref %q", ref)
	}
	return filepath.Join(s.dataDir, ref), nil
}

// Writer handles writing of content into local store
type Writer interface {
	// Close closes the writer.
	//
	// If the writer has not been committed, this allows aborting.
	// Calling Close on a closed writer will not error.
	io.WriteCloser

	// Commit commits data as file named by ref.
	//
	// Commit always close Writer. If ref already exists, it will return
	// error.
	Commit(ref string) error
}

// Reader reads committed content.
type Reader interface {
	io.Reader
	io.ReaderAt
	io.Closer
	Size() int64
}
