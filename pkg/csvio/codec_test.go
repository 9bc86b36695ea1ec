package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fr0glo/productsampler/pkg/table"
)

func defaultConfig() Config {
	return Config{Delimiter: ",", Compression: CompressionAuto}
}

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		input       string
		cfg         Config
		wantColumns []string
		wantRows    []table.Row
		wantErr     error
	}{
		"header and rows": {
			input:       "id,name,price\n1,bolt,0.10\n2,nut,\n",
			cfg:         defaultConfig(),
			wantColumns: []string{"id", "name", "price"},
			wantRows:    []table.Row{{"1", "bolt", "0.10"}, {"2", "nut", ""}},
		},
		"header only": {
			input:       "id,name\n",
			cfg:         defaultConfig(),
			wantColumns: []string{"id", "name"},
		},
		"quoted fields with delimiters and newlines": {
			input:       "id,desc\n1,\"a, b\"\n2,\"line1\nline2\"\n3,\"say \"\"hi\"\"\"\n",
			cfg:         defaultConfig(),
			wantColumns: []string{"id", "desc"},
			wantRows:    []table.Row{{"1", "a, b"}, {"2", "line1\nline2"}, {"3", "say \"hi\""}},
		},
		"semicolon delimiter": {
			input:       "id;name\n1;bolt\n",
			cfg:         Config{Delimiter: ";"},
			wantColumns: []string{"id", "name"},
			wantRows:    []table.Row{{"1", "bolt"}},
		},
		"byte order mark and duplicate header names": {
			input:       "\ufeffid,name,name\n1,a,b\n",
			cfg:         defaultConfig(),
			wantColumns: []string{"id", "name", "name.1"},
			wantRows:    []table.Row{{"1", "a", "b"}},
		},
		"lazy quotes accepts bare quotes": {
			input:       "id,desc\n1,5\" bolt\n",
			cfg:         Config{LazyQuotes: true},
			wantColumns: []string{"id", "desc"},
			wantRows:    []table.Row{{"1", "5\" bolt"}},
		},
		"empty input": {
			input:   "",
			cfg:     defaultConfig(),
			wantErr: table.ErrParse,
		},
		"inconsistent field count": {
			input:   "id,name\n1,bolt\n2\n",
			cfg:     defaultConfig(),
			wantErr: table.ErrParse,
		},
		"unterminated quote": {
			input:   "id,name\n1,\"bolt\n",
			cfg:     defaultConfig(),
			wantErr: table.ErrParse,
		},
		"bare quote rejected by default": {
			input:   "id,desc\n1,5\" bolt\n",
			cfg:     defaultConfig(),
			wantErr: table.ErrParse,
		},
		"invalid delimiter": {
			input:   "id\n",
			cfg:     Config{Delimiter: "\""},
			wantErr: table.ErrInvalidArgument,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tbl, err := Decode(strings.NewReader(tc.input), tc.cfg)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantColumns, tbl.Columns)
			assert.Equal(t, tc.wantRows, tbl.Rows)
		})
	}
}

func TestEncode(t *testing.T) {
	tbl, err := table.New([]string{"id", "desc"}, []table.Row{
		{"1", "plain"},
		{"2", "a, b"},
		{"3", "say \"hi\""},
		{"4", ""},
	})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, Encode(buf, tbl, defaultConfig()))

	expected := "id,desc\n1,plain\n2,\"a, b\"\n3,\"say \"\"hi\"\"\"\n4,\n"
	assert.Equal(t, expected, buf.String())
}

func TestEncode_Delimiter(t *testing.T) {
	tbl, err := table.New([]string{"id", "name"}, []table.Row{{"1", "bolt"}})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, Encode(buf, tbl, Config{Delimiter: "\t"}))
	assert.Equal(t, "id\tname\n1\tbolt\n", buf.String())
}

func TestEncode_SingleEmptyField(t *testing.T) {
	tbl, err := table.New([]string{"sku"}, []table.Row{{"A1"}, {""}, {"A3"}})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, Encode(buf, tbl, defaultConfig()))
	assert.Equal(t, "sku\nA1\n\"\"\nA3\n", buf.String())

	decoded, err := Decode(buf, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, decoded.Rows)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"id,name,price\n1,bolt,0.10\n2,nut,\n3,\"washer, steel\",1.5\n",
		"sku\n",
		"sku\n\"\"\nA1\n\"\"\n",
		"a,b\n\"multi\nline\",\"quote \"\"q\"\"\"\n",
	}

	for _, input := range inputs {
		first, err := Decode(strings.NewReader(input), defaultConfig())
		require.NoError(t, err)

		buf := &bytes.Buffer{}
		require.NoError(t, Encode(buf, first, defaultConfig()))

		second, err := Decode(buf, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, first.Columns, second.Columns)
		assert.Equal(t, first.Rows, second.Rows)
		assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	}
}

func TestUniqueColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "a.2"}, uniqueColumns([]string{"a", "a", "a"}))
	assert.Equal(t, []string{"a", "a.1", "a.2"}, uniqueColumns([]string{"a", "a.1", "a"}))
	assert.Equal(t, []string{"x", "y"}, uniqueColumns([]string{"\ufeffx", "y"}))
	assert.Equal(t, []string{}, uniqueColumns([]string{}))
}
