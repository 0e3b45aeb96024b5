package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "disabled", opts: Options{}, want: os.TempDir()},
		{name: "custom", opts: Options{Enabled: true, Dir: "/custom/log/dir"}, want: "/custom/log/dir"},
		{name: "default", opts: DefaultOptions(), want: filepath.Join(home, ".sales-console", "logs")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := Dir(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dir)
		})
	}

	assert.DirExists(t, filepath.Join(home, ".sales-console", "logs"))
}

func TestFilePath(t *testing.T) {
	path, err := FilePath(Options{Enabled: true, Dir: "/custom/log/dir"})
	require.NoError(t, err)
	assert.Equal(t, "/custom/log/dir/salesconsole.log", path)
}

func TestOpenWriter(t *testing.T) {
	dir := t.TempDir()

	w, err := openWriter(filepath.Join(dir, "nested", "plain.log"), Options{})
	require.NoError(t, err)
	f, ok := w.(*os.File)
	require.True(t, ok, "rotation disabled opens a plain file")
	f.Close()

	w, err = openWriter(filepath.Join(dir, "rotating.log"), DefaultOptions())
	require.NoError(t, err)
	_, ok = w.(*os.File)
	assert.False(t, ok)
}

func TestInitializeWritesToConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	defer Close()

	Initialize(Options{Enabled: true, Dir: dir, MaxSizeMB: 1, MaxBackups: 1})
	WarningLog.Printf("filter store unavailable")

	assert.Equal(t, filepath.Join(dir, "salesconsole.log"), Current())
	data, err := os.ReadFile(Current())
	require.NoError(t, err)
	assert.Contains(t, string(data), "filter store unavailable")
}

func TestEvery(t *testing.T) {
	e := NewEvery(20 * time.Millisecond)
	assert.True(t, e.ShouldLog(), "first call always logs")
	assert.False(t, e.ShouldLog(), "second call within the window is suppressed")

	time.Sleep(30 * time.Millisecond)
	assert.True(t, e.ShouldLog())
}
