package core

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTable(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"job_id,job_title,salary_usd,posting_date\n"+
			"AI00001,ML Engineer,120000,2024-01-01\n"+
			"AI00002,Data Scientist,,2024-02-15\n")

	tbl, err := LoadTable(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"job_id", "job_title", "salary_usd", "posting_date"}, tbl.Header())

	salary, _ := tbl.Column("salary_usd")
	assert.Equal(t, KindNumeric, salary.Kind)
	assert.Equal(t, 1, salary.MissingCount())

	posting, _ := tbl.Column("posting_date")
	assert.Equal(t, KindCategorical, posting.Kind, "dates load as text")
}

func TestLoadTable_SourceNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	_, err := LoadTable(context.Background(), path)

	var notFound *SourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, path, notFound.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTable_Directory(t *testing.T) {
	_, err := LoadTable(context.Background(), t.TempDir())

	var notFound *SourceNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoadTable_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	_, err := LoadTable(context.Background(), path)
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestReadTable_HeaderOnly(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}

func TestReadTable_BOMAndQuotedHeader(t *testing.T) {
	input := "\xEF\xBB\xBF=\"job_id\",title\nAI1,\"Engineer, ML\"\n"

	tbl, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"job_id", "title"}, tbl.Header())
	title, _ := tbl.Column("title")
	assert.Equal(t, []string{"Engineer, ML"}, columnText(title))
}

func TestReadTable_ShortRowsPadded(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("a,b,c\n1,2\n4,5,6\n"))
	require.NoError(t, err)

	c, _ := tbl.Column("c")
	assert.Equal(t, []string{"<missing>", "6"}, columnText(c))
	assert.Equal(t, KindNumeric, c.Kind)
}

func TestReadTable_LongRowRejected(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n1,2\n3,4,5\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, csv.ErrFieldCount)
	assert.Contains(t, err.Error(), "invalid csv")
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadTable_MalformedQuotes(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n\"unterminated,2\n"))

	require.Error(t, err)
	var parseErr *csv.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "FILE002", MapError(err).Code)
}

func TestReadTable_DuplicateHeaders(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("id,id,\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "id.1", "Unnamed: 2"}, tbl.Header())
}

func TestReadTable_MissingMarkers(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("level,years\nSE,NA\nN/A,3\n,NaN\n"))
	require.NoError(t, err)

	level, _ := tbl.Column("level")
	years, _ := tbl.Column("years")
	assert.Equal(t, 2, level.MissingCount())
	assert.Equal(t, 2, years.MissingCount())
	assert.Equal(t, KindNumeric, years.Kind)
}
