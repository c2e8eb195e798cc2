package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/codesage/internal/commenter"
)

const sample = "def add(a, b):\n    return a + b\n\n\ndef sub(a, b):\n    return a - b\n"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "math.py")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	return path
}

func TestRunComment(t *testing.T) {
	url, _, _, _ := startLauncher(t, &stubModel{})
	path := writeSample(t)
	output := filepath.Join(t.TempDir(), "math_comments.txt")

	var out bytes.Buffer
	err := runComment(context.Background(), &out, commentOptions{
		Path:         path,
		ServerURL:    url,
		ReadyTimeout: 5 * time.Second,
		PollInterval: 10 * time.Millisecond,
		Output:       output,
		Write:        true,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "function add (L1-L2)")
	assert.Contains(t, out.String(), "function sub (L5-L6)")
	assert.Contains(t, out.String(), "All comments generated successfully!")

	saved, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t,
		"Code Block:\ndef add(a, b):\n    return a + b\n\nComment:\nComment for def add(a, b):\n    return a + b\n\n"+
			"Code Block:\ndef sub(a, b):\n    return a - b\n\nComment:\nComment for def sub(a, b):\n    return a - b\n\n",
		string(saved))

	annotated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(annotated), "# Comment for def add(a, b):\n#     return a + b\ndef add(a, b):")
}

func TestRunComment_ServerNotReady(t *testing.T) {
	url, _, _, _ := startLauncher(t, &stubModel{delay: time.Hour})
	path := writeSample(t)

	var out bytes.Buffer
	err := runComment(context.Background(), &out, commentOptions{
		Path:         path,
		ServerURL:    url,
		ReadyTimeout: 100 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, commenter.ErrNotReady)
	assert.Contains(t, out.String(), "Local server is not ready")

	// the file is left alone
	data, _ := os.ReadFile(path)
	assert.Equal(t, sample, string(data))
}

func TestRunComment_NoBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.py")
	require.NoError(t, os.WriteFile(path, []byte("print('hi')\n"), 0644))

	var out bytes.Buffer
	err := runComment(context.Background(), &out, commentOptions{Path: path, ServerURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No functions or classes found to comment.")
}

func TestRunComment_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	require.NoError(t, os.WriteFile(path, []byte("func (\n"), 0644))

	err := runComment(context.Background(), &bytes.Buffer{}, commentOptions{Path: path})
	assert.Error(t, err)
}
