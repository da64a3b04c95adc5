package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// openInput opens fn for reading, stdin for "" or "-". Files ending in .gz or
// .zst are decompressed.
func openInput(fn string) (io.ReadCloser, error) {
	if fn == "" || fn == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	return decompress(fh, filepath.Ext(fn))
}

func decompress(rc io.ReadCloser, ext string) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".gz":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return multiCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case ".zst":
		zr, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return multiCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), rc}}, nil
	}
	return rc, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
