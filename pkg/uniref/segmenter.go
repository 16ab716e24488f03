// Package uniref turns bulk UniRef release dumps into per-cluster
// entries and extracts structured fields from them.
//
// A dump is a line-oriented text file, optionally gzip-compressed. An
// entry opens at a line starting with `<entry id="...">` and closes at
// a `</entry>` line. The reader never holds more than one entry in
// memory.
package uniref

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// ErrInvalidInput indicates the configured input is neither an existing
// file path nor a list of existing file paths.
var ErrInvalidInput = errors.New("input must reference existing files")

const entryClose = "</entry>"

// Scanner limits: a single line of a UniRef dump is expected to stay
// well below this.
const maxLineBytes = 4 << 20

// EntryReader yields complete entries from one or more dump files.
// Files are consumed sequentially, preserving line order as if
// concatenated; files ending in .gz are decompressed transparently.
// An EntryReader is single-use: once Next returns io.EOF it stays
// exhausted.
type EntryReader struct {
	paths   []string
	next    int
	file    *os.File
	gz      io.ReadCloser
	scanner *bufio.Scanner
}

// NewEntryReader validates paths and prepares a reader over their
// concatenation. Every path must refer to an existing regular file;
// otherwise ErrInvalidInput is returned.
func NewEntryReader(paths ...string) (*EntryReader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no input files", ErrInvalidInput)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, p)
		}
	}
	return &EntryReader{paths: paths}, nil
}

// Next returns the next complete entry, including its closing marker
// line. It returns io.EOF once all inputs are exhausted. Lines
// buffered at end-of-input that never saw a close marker belong to a
// truncated entry and are dropped.
func (r *EntryReader) Next(ctx context.Context) ([]string, error) {
	var entry []string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := r.nextLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		if strings.HasPrefix(line, entryClose) {
			// A close marker with nothing buffered is stray; skip it.
			if len(entry) == 0 {
				continue
			}
			entry = append(entry, line)
			return entry, nil
		}
		entry = append(entry, line)
	}
}

// Close releases the currently open source. Safe to call multiple
// times and after exhaustion.
func (r *EntryReader) Close() error {
	err := r.closeCurrent()
	r.next = len(r.paths)
	return err
}

// nextLine reads one right-trimmed line, advancing through the input
// files as each is exhausted.
func (r *EntryReader) nextLine() (string, error) {
	for {
		if r.scanner == nil {
			if r.next >= len(r.paths) {
				return "", io.EOF
			}
			if err := r.open(r.paths[r.next]); err != nil {
				return "", err
			}
			r.next++
		}
		if r.scanner.Scan() {
			return strings.TrimRight(r.scanner.Text(), " \t\r"), nil
		}
		err := r.scanner.Err()
		if cerr := r.closeCurrent(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", err
		}
	}
}

func (r *EntryReader) open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("gzip %s: %w", path, err)
		}
		r.gz = gz
		src = gz
	}
	r.file = f
	r.scanner = bufio.NewScanner(src)
	r.scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return nil
}

func (r *EntryReader) closeCurrent() error {
	var err error
	if r.gz != nil {
		err = r.gz.Close()
		r.gz = nil
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
		r.file = nil
	}
	r.scanner = nil
	return err
}
