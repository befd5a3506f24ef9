package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
)

func collect(t *testing.T, p *StreamingParser) []map[string]string {
	t.Helper()
	var rows []map[string]string
	for p.Next() {
		rows = append(rows, p.Row())
	}
	require.NoError(t, p.Err())
	return rows
}

func TestStreamingParserReadsRows(t *testing.T) {
	in := "\ufeffTerm Name,Deposit Required,Prepay % (Due <= ERD)\n" +
		"Net 30, 20%,\n" +
		",,\n" +
		"\"30/70, ERD\",30%,70%\n" +
		"Short\n"

	p, err := NewStreamingReader(strings.NewReader(in), "terms.csv", config.DefaultCSVSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Term Name", "Deposit Required", "Prepay % (Due <= ERD)"}, p.Headers())
	assert.True(t, p.HasColumn("Term Name"))
	assert.False(t, p.HasColumn("PO"))

	rows := collect(t, p)
	require.Len(t, rows, 3)
	assert.Equal(t, "Net 30", rows[0]["Term Name"])
	assert.Equal(t, "20%", rows[0]["Deposit Required"])
	assert.Equal(t, "30/70, ERD", rows[1]["Term Name"])
	assert.Equal(t, "", rows[2]["Deposit Required"])
	assert.NoError(t, p.Close())
}

func TestStreamingParserMultiRowHeader(t *testing.T) {
	in := "Prepay %,,Net Days\n(Due <= ERD),Memo,(Due post ERD)\n50%,x,30\n"
	settings := config.CSVSettings{Delimiter: ",", HeaderRows: 2, DataStartRow: 3}

	p, err := NewStreamingReader(strings.NewReader(in), "terms.csv", settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"Prepay % (Due <= ERD)", "Memo", "Net Days (Due post ERD)"}, p.Headers())

	rows := collect(t, p)
	require.Len(t, rows, 1)
	assert.Equal(t, "30", rows[0]["Net Days (Due post ERD)"])
}

func TestStreamingParserDelimiters(t *testing.T) {
	for _, delim := range []string{"tab", "\\t", "|", ";"} {
		sep := map[string]string{"tab": "\t", "\\t": "\t", "|": "|", ";": ";"}[delim]
		in := "PO" + sep + "Debit Amount\nPO1001" + sep + "25.00\n"

		p, err := NewStreamingReader(strings.NewReader(in), "paid.csv", config.CSVSettings{Delimiter: delim, HeaderRows: 1})
		require.NoError(t, err, delim)
		rows := collect(t, p)
		require.Len(t, rows, 1, delim)
		assert.Equal(t, "25.00", rows[0]["Debit Amount"], delim)
	}
}

func TestStreamingParserEmptyFile(t *testing.T) {
	_, err := NewStreamingReader(strings.NewReader(""), "empty.csv", config.DefaultCSVSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty.csv")
}

func TestNewStreamingParserFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paid.csv")
	require.NoError(t, os.WriteFile(path, []byte("PO,Debit Amount\nA,1\nB,2\n"), 0o644))

	p, err := NewStreamingParser(path, config.DefaultCSVSettings())
	require.NoError(t, err)
	defer p.Close()

	rows := collect(t, p)
	assert.Len(t, rows, 2)
	assert.Equal(t, 3, p.RowNumber())
	assert.Equal(t, path, p.Source())
}

func TestNewStreamingParserMissingFile(t *testing.T) {
	_, err := NewStreamingParser(filepath.Join(t.TempDir(), "missing.csv"), config.DefaultCSVSettings())
	require.Error(t, err)
}
