package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// withWorkdir runs fn with the process working directory set to dir,
// restoring the original directory afterward. Load() reads config.yml
// / config.yaml relative to the working directory per §4.1.
func withWorkdir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()
	fn()
}
