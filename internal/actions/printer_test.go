package actions

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spooledJob(t *testing.T, dir string, res Result) string {
	t.Helper()
	require.True(t, res.Success, res.Error)
	name, _ := res.Data["job"].(string)
	require.NotEmpty(t, name)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestPrintText(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(Printer(dir)...)

	res := r.Invoke(context.Background(), "print_text", `{"text":"pick up the parcel"}`)
	content := spooledJob(t, dir, res)
	assert.Equal(t, "pick up the parcel", content)
}

func TestPrintTextRejectsEmpty(t *testing.T) {
	r := NewRegistry(Printer(t.TempDir())...)

	res := r.Invoke(context.Background(), "print_text", `{"text":"   "}`)
	assert.False(t, res.Success)
}

func TestPrintTaskCard(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(Printer(dir)...)

	res := r.Invoke(context.Background(), "print_task", `{"title":"Groceries","items":["milk","eggs"]}`)
	content := spooledJob(t, dir, res)
	assert.Contains(t, content, "=== GROCERIES ===")
	assert.Contains(t, content, "[ ] milk")
	assert.Contains(t, content, "[ ] eggs")
}
