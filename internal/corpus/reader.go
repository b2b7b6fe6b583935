// Package corpus reads input text documents for extraction.
package corpus

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one unit of text handed to the extractor.
type Document struct {
	ID   string // file name relative to the opened path, or "-" for stdin
	Path string
	Text string
}

// Reader is the interface for sources that yield documents.
type Reader interface {
	// Next reads the next document.
	// Returns nil, nil when there are no more documents.
	Next() (*Document, error)

	// Close releases resources.
	Close() error
}

// Open returns a reader over path: "-" reads stdin as one document, a
// directory yields every .txt and .txt.gz file in lexical order, and
// any other path is read as a single document. Gzip input is detected
// by its magic bytes.
func Open(path string) (Reader, error) {
	if path == "-" {
		return &singleReader{id: "-", path: "-", open: func() (io.ReadCloser, error) {
			return decompress(io.NopCloser(os.Stdin))
		}}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	if info.IsDir() {
		return openDir(path)
	}
	return &singleReader{id: filepath.Base(path), path: path, open: func() (io.ReadCloser, error) {
		return openFile(path)
	}}, nil
}

// OpenLines returns a reader yielding each non-blank, non-comment line
// of path (or stdin for "-") as its own document. Used for variant
// lists, one mention per line.
func OpenLines(path string) (Reader, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path == "-" {
		rc, err = decompress(io.NopCloser(os.Stdin))
	} else {
		rc, err = openFile(path)
	}
	if err != nil {
		return nil, err
	}
	id := "-"
	if path != "-" {
		id = filepath.Base(path)
	}
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineReader{id: id, path: path, rc: rc, scanner: sc}, nil
}

// ReadAll drains r into a slice and closes it.
func ReadAll(r Reader) ([]*Document, error) {
	defer r.Close()
	var docs []*Document
	for {
		d, err := r.Next()
		if err != nil {
			return nil, err
		}
		if d == nil {
			return docs, nil
		}
		docs = append(docs, d)
	}
}

// openFile opens path, transparently decompressing gzip content.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	rc, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// decompress peeks at the gzip magic number (0x1f, 0x8b) and wraps rc
// in a gzip reader when present.
func decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, rc}}, nil
	}
	return &stackedCloser{Reader: br, closers: []io.Closer{rc}}, nil
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// singleReader yields one document.
type singleReader struct {
	id, path string
	open     func() (io.ReadCloser, error)
	done     bool
}

func (r *singleReader) Next() (*Document, error) {
	if r.done {
		return nil, nil
	}
	r.done = true
	rc, err := r.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return &Document{ID: r.id, Path: r.path, Text: string(data)}, nil
}

func (r *singleReader) Close() error {
	r.done = true
	return nil
}

// dirReader yields the text files of a directory one at a time.
type dirReader struct {
	root  string
	files []string
	next  int
}

func isTextFile(name string) bool {
	return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".txt.gz")
}

func openDir(root string) (*dirReader, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}
	r := &dirReader{root: root}
	for _, e := range entries {
		if e.Type().IsRegular() && isTextFile(e.Name()) {
			r.files = append(r.files, e.Name())
		}
	}
	sort.Strings(r.files)
	return r, nil
}

func (r *dirReader) Next() (*Document, error) {
	if r.next >= len(r.files) {
		return nil, nil
	}
	name := r.files[r.next]
	r.next++
	path := filepath.Join(r.root, name)
	single := &singleReader{id: name, path: path, open: func() (io.ReadCloser, error) {
		return openFile(path)
	}}
	return single.Next()
}

func (r *dirReader) Close() error {
	r.next = len(r.files)
	return nil
}

// lineReader yields one document per line.
type lineReader struct {
	id, path   string
	rc         io.ReadCloser
	scanner    *bufio.Scanner
	lineNumber int
}

func (r *lineReader) Next() (*Document, error) {
	for r.scanner.Scan() {
		r.lineNumber++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return &Document{
			ID:   fmt.Sprintf("%s:%d", r.id, r.lineNumber),
			Path: r.path,
			Text: line,
		}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s line %d: %w", r.path, r.lineNumber+1, err)
	}
	return nil, nil
}

func (r *lineReader) Close() error {
	return r.rc.Close()
}
