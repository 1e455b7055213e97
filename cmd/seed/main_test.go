package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellName, &r))
	}

	path := filepath.Join(t.TempDir(), "comments.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadExternalCommentsFromXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"영화 ID", "영화 제목", "이름", "이메일", "내용", "작성일"},
		{"157336", "Interstellar", "Guest", "guest@example.com", "Saw it twice", "2024-11-07 20:15:00"},
		{"27205", "Inception", "Dom", "", "Still spinning", ""},
		{"abc", "Broken", "Nobody", "", "bad id"},
		{"27205", "Inception", "", "", "no name"},
		{"27205", "Inception", "Ariadne"},
	})

	comments, skipped, err := readExternalCommentsFromXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, comments, 2)

	assert.Equal(t, int64(157336), comments[0].MovieID)
	assert.Equal(t, "guest@example.com", comments[0].Email)
	assert.Equal(t, 2024, comments[0].CreatedAt.Year())

	assert.Equal(t, "Dom", comments[1].Name)
	assert.True(t, comments[1].CreatedAt.IsZero())
}

func TestReadExternalCommentsFromXLSX_MissingFile(t *testing.T) {
	_, _, err := readExternalCommentsFromXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
