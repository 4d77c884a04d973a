package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateCSVTree lays out folder -> file -> content below root.
func CreateCSVTree(t *testing.T, root string, tree map[string]map[string]string) {
	t.Helper()
	for folder, files := range tree {
		dir := filepath.Join(root, folder)
		require.NoError(t, os.MkdirAll(dir, 0755))
		CreateTestFilesWithContent(t, dir, files)
	}
}

// NumberedCSV returns a CSV with an "id,value" header and n numbered rows.
func NumberedCSV(n int) string {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "%d,row-%d\n", i, i)
	}
	return sb.String()
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
