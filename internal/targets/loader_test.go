package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTxt(t *testing.T) {
	path := writeFile(t, "targets.txt", `
www.example-clinic.co.uk
# staging site, skip
smile-dental.com

www.example-clinic.co.uk
`)

	targets, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"www.example-clinic.co.uk", "smile-dental.com"}, targets)
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "targets.csv", `website,city
www.example-clinic.co.uk,London
smile-dental.com,Brighton
`)

	targets, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"www.example-clinic.co.uk", "smile-dental.com"}, targets)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.xlsx")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Targets")
	require.NoError(t, err)
	for _, v := range []string{"URL", "www.example-clinic.co.uk", "", "smile-dental.com"} {
		row := sheet.AddRow()
		row.AddCell().Value = v
	}
	require.NoError(t, file.Save(path))

	targets, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"www.example-clinic.co.uk", "smile-dental.com"}, targets)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestDedupeKeepsOrder(t *testing.T) {
	out := dedupe([]string{"b.com", "a.com", "b.com", "  a.com  "})
	assert.Equal(t, []string{"b.com", "a.com"}, out)
}
