package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// encName returns the charset of the LANG environment variable, or utf-8.
func encName() string {
	name := os.Getenv("LANG")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = strings.ToLower(name[i+1:])
	} else {
		name = ""
	}
	if name == "" {
		name = "utf-8"
	}
	return name
}

func getEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(name)
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		err = fmt.Errorf("%q: %w", name, err)
	}
	return enc, err
}

// readCSV reads every record of fn as one row of string values.
// Compressed files are read through openInput.
func readCSV(fn, charset string, skipHeader bool) ([][]any, error) {
	enc, err := getEncoding(charset)
	if err != nil {
		return nil, err
	}
	fh, err := openInput(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return parseCSV(fh, enc, skipHeader)
}

func parseCSV(r io.Reader, enc encoding.Encoding, skipHeader bool) ([][]any, error) {
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	sep := sniffSeparator(string(b))

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	var rows [][]any
	for first := true; ; first = false {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return rows, err
		}
		if first && skipHeader {
			continue
		}
		row := make([]any, len(rec))
		for i, s := range rec {
			row[i] = s
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sniffSeparator returns the first of , ; tab or | found outside quotes in the
// first line of head, defaulting to a comma.
func sniffSeparator(head string) rune {
	quoted := false
	for _, r := range head {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '\n' || r == '\r':
			return ','
		case r == ',' || r == ';' || r == '\t' || r == '|':
			return r
		}
	}
	return ','
}
