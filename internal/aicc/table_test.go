package aicc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTable_CommaDelimited(t *testing.T) {
	content := "system_id,title,description\nAU1,Intro,First lesson\nAU2,Outro,Last lesson\n"
	tbl, err := ReadTable(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, tbl.Records, 2)
	require.Equal(t, "Intro", tbl.Records[0].Get("TITLE"), "column lookup is case-insensitive")
	require.Equal(t, "AU2", tbl.Records[1].Get("system_id"))
}

func TestReadTable_TabDelimitedSniffed(t *testing.T) {
	content := "system_id\ttitle\nAU1\tIntro\n"
	tbl, err := ReadTable(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	require.Equal(t, "Intro", tbl.Records[0].Get("title"))
}

func TestReadTable_BlankRowsSkipped(t *testing.T) {
	content := "system_id,title\nAU1,Intro\n\n  \nAU2,Outro\n"
	tbl, err := ReadTable(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, tbl.Records, 2)
}

func TestReadTable_EmptyInput(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, tbl.Records)
}

func TestReadTable_CRLFLineEndings(t *testing.T) {
	content := "system_id,title\r\nAU1,Intro\r\n"
	tbl, err := ReadTable(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	require.Equal(t, "AU1", tbl.Records[0].Get("system_id"))
}

func TestReadKeyValueTable_SectionsPreserveOrder(t *testing.T) {
	content := "[Course]\nCourse_ID=GOLF\nCourse_Title=Golf 101\n\n[Course_Description]\nLine1=\nLine2=More detail\n"
	entries, err := ReadKeyValueTable(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, entries, 4)
	require.Equal(t, "Course", entries[0].Section)
	require.Equal(t, "GOLF", entries[0].Value)
	require.Equal(t, "Course_Description", entries[2].Section)
}

func TestReadKeyValueTable_IgnoresCommentsAndBlankLines(t *testing.T) {
	content := "; a comment\n[Course]\nCourse_ID=GOLF\n\n"
	entries, err := ReadKeyValueTable(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Course_ID", entries[0].Key)
}
