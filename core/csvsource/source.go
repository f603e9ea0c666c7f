package csvsource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"csv-importer/core/reconcile"

	"github.com/klauspost/compress/gzip"
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Options controls CSV decoding.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// HasHeader consumes the first record as column names.
	HasHeader bool
	// LazyQuotes tolerates quotes inside unquoted fields.
	LazyQuotes bool
}

// Source reads CSV records as reconcile rows.
type Source struct {
	reader *csv.Reader
	header []string
	line   int
}

// New wraps r. Gzip compressed input is decompressed transparently. The
// header, when requested, is read immediately.
func New(r io.Reader, opts Options) (*Source, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(prefix, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		br = bufio.NewReader(zr)
	}
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	cr.LazyQuotes = opts.LazyQuotes
	if opts.Delimiter != 0 {
		if !validDelimiter(opts.Delimiter) {
			return nil, fmt.Errorf("invalid delimiter %q", opts.Delimiter)
		}
		cr.Comma = opts.Delimiter
	}

	s := &Source{reader: cr}
	if opts.HasHeader {
		header, err := cr.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		s.header = header
		s.line++
	}
	return s, nil
}

// Header returns the header record, or nil when none was read.
func (s *Source) Header() []string {
	return s.header
}

// Next implements reconcile.RowSource.
func (s *Source) Next() (reconcile.Row, error) {
	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	s.line++
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv record %d: %w", s.line, err)
	}
	return reconcile.Row(record), nil
}

// Index returns the position of column name in the header, or -1.
func (s *Source) Index(name string) int {
	for i, h := range s.header {
		if h == name {
			return i
		}
	}
	return -1
}

// ParseDelimiter converts a configuration string into a delimiter rune.
// "\t" and "tab" mean a tab; empty means ','.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !validDelimiter(r) {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}
