// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xyz reads extended XYZ records (count line, property line, atom
// lines) and renders them in the basic XYZ layout (count line, atom lines).
// Atom lines are opaque: no element or coordinate validation is done.
package xyz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/qm9-simplify/pkg/types"
)

var (
	// ErrParse reports a count line that is missing, not an integer, or negative.
	ErrParse = errors.New("malformed atom count")

	// ErrShortRead reports input that ends before the declared number of atom lines.
	ErrShortRead = errors.New("premature end of file")
)

// preallocLimit bounds the initial atom slice so a bogus count line cannot
// force a huge allocation before any atom line is read.
const preallocLimit = 4096

// Parse reads one record from r. The count line is kept as written (minus its
// line terminator); the second line is consumed and never rendered; the next
// AtomCount lines are trimmed and kept in order. Anything after them is ignored.
func Parse(r io.Reader) (types.Record, error) {
	br := bufio.NewReader(r)
	var rec types.Record

	countLine, err := readLine(br)
	if errors.Is(err, io.EOF) {
		return rec, fmt.Errorf("%w: empty input", ErrParse)
	}
	if err != nil {
		return rec, fmt.Errorf("reading atom count: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil {
		return rec, fmt.Errorf("%w: %q is not an integer", ErrParse, countLine)
	}
	if n < 0 {
		return rec, fmt.Errorf("%w: %d is negative", ErrParse, n)
	}
	rec.CountLine = countLine
	rec.AtomCount = n

	comment, err := readLine(br)
	switch {
	case errors.Is(err, io.EOF):
		if n > 0 {
			return rec, fmt.Errorf("%w: found 0 of %d atom lines", ErrShortRead, n)
		}
		rec.AtomLines = []string{}
		return rec, nil
	case err != nil:
		return rec, fmt.Errorf("reading comment line: %w", err)
	}
	rec.Comment = comment

	rec.AtomLines = make([]string, 0, min(n, preallocLimit))
	for len(rec.AtomLines) < n {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return rec, fmt.Errorf("%w: found %d of %d atom lines", ErrShortRead, len(rec.AtomLines), n)
		}
		if err != nil {
			return rec, fmt.Errorf("reading atom line %d: %w", len(rec.AtomLines)+1, err)
		}
		rec.AtomLines = append(rec.AtomLines, strings.TrimSpace(line))
	}

	return rec, nil
}

// Format renders rec in the basic layout: the count line followed by the atom
// lines, newline separated, with a trailing newline.
func Format(rec types.Record) string {
	var b strings.Builder
	b.WriteString(rec.CountLine)
	b.WriteByte('\n')
	for _, line := range rec.AtomLines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// ReadFile opens path and parses a single record from it.
func ReadFile(path string) (types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Record{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return rec, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator. A
// final line with no terminator is returned normally; io.EOF is returned only
// when no bytes remain.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", io.EOF
		}
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
