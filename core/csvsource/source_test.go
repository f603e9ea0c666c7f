package csvsource

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"csv-importer/core/reconcile"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src reconcile.RowSource) []reconcile.Row {
	t.Helper()
	var rows []reconcile.Row
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   Options
		header []string
		want   []reconcile.Row
	}{
		{
			name:  "plain",
			input: "1,a\n2,b\n",
			want:  []reconcile.Row{{"1", "a"}, {"2", "b"}},
		},
		{
			name:   "header and bom",
			input:  "\xEF\xBB\xBFid,name\n1,a\n",
			opts:   Options{HasHeader: true},
			header: []string{"id", "name"},
			want:   []reconcile.Row{{"1", "a"}},
		},
		{
			name:  "semicolon and ragged rows",
			input: "1;a;x\n2\n",
			opts:  Options{Delimiter: ';'},
			want:  []reconcile.Row{{"1", "a", "x"}, {"2"}},
		},
		{
			name:  "quoted fields",
			input: "\"1\",\"a, b\"\n",
			want:  []reconcile.Row{{"1", "a, b"}},
		},
		{
			name:   "header only",
			input:  "id,name\n",
			opts:   Options{HasHeader: true},
			header: []string{"id", "name"},
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.header, src.Header())
			assert.Equal(t, tt.want, readAll(t, src))
		})
	}
}

func TestSource_ParseError(t *testing.T) {
	src, err := New(strings.NewReader("1,a\n2,\"broken\n"), Options{})
	require.NoError(t, err)

	_, err = src.Next()
	require.NoError(t, err)

	_, err = src.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse csv record 2")
}

func TestSource_Index(t *testing.T) {
	src, err := New(strings.NewReader("id,name\n"), Options{HasHeader: true})
	require.NoError(t, err)

	assert.Equal(t, 1, src.Index("name"))
	assert.Equal(t, -1, src.Index("missing"))
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{";", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"|", '|', false},
		{"ab", 0, true},
		{`"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_InvalidDelimiter(t *testing.T) {
	_, err := New(strings.NewReader(""), Options{Delimiter: '\n'})
	assert.Error(t, err)
}

func TestSource_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("\xEF\xBB\xBFid,name\n1,a\n2,b\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	src, err := New(&buf, Options{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, src.Header())
	assert.Equal(t, []reconcile.Row{{"1", "a"}, {"2", "b"}}, readAll(t, src))
}

func TestSource_CorruptGzip(t *testing.T) {
	_, err := New(bytes.NewReader([]byte{0x1f, 0x8b, 0x00}), Options{})
	assert.Error(t, err)
}
