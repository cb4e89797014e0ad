package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

func newPromptStore(t *testing.T) (*PromptStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".medrag", "prompts"), store.Dir())
}

func TestPromptStore_FirstLoadSeedsDirectory(t *testing.T) {
	store, dir := newPromptStore(t)

	_, err := store.Load(driven.PromptInstructions)
	require.NoError(t, err)

	for _, f := range []string{"instructions.txt", "agent_system.txt", "README.md"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "`agent_system.txt`")
	assert.Contains(t, string(readme), "{{profile}}")
}

func TestPromptStore_BuiltInPrompts(t *testing.T) {
	store, _ := newPromptStore(t)

	instructions, err := store.Load(driven.PromptInstructions)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInstructions, instructions)

	system, err := store.Load(driven.PromptAgentSystem)
	require.NoError(t, err)
	assert.Contains(t, system, "{{disclaimer}}")
	assert.Contains(t, system, "{{profile}}")
}

func TestPromptStore_SeedKeepsExistingFiles(t *testing.T) {
	store, dir := newPromptStore(t)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructions.txt"), []byte("  Be brief.\n"), 0600))

	prompt, err := store.Load(driven.PromptInstructions)

	require.NoError(t, err)
	assert.Equal(t, "Be brief.", prompt)
}

func TestPromptStore_EmptyFileFallsBack(t *testing.T) {
	store, dir := newPromptStore(t)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent_system.txt"), []byte("   "), 0600))

	prompt, err := store.Load(driven.PromptAgentSystem)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAgentSystemPrompt, prompt)
}

func TestPromptStore_DeletedFileFallsBack(t *testing.T) {
	store, dir := newPromptStore(t)
	_, err := store.Load(driven.PromptInstructions)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "instructions.txt")))

	prompt, err := store.Load(driven.PromptInstructions)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInstructions, prompt)
}

func TestPromptStore_EditsApplyImmediately(t *testing.T) {
	store, dir := newPromptStore(t)
	_, err := store.Load(driven.PromptInstructions)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructions.txt"), []byte("Changed."), 0600))

	prompt, err := store.Load(driven.PromptInstructions)
	require.NoError(t, err)
	assert.Equal(t, "Changed.", prompt)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, dir := newPromptStore(t)

	_, err := store.Load("nonexistent")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "nonexistent.txt"), []byte("custom"), 0600))
	prompt, err := store.Load("nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "custom", prompt)
}

func TestPromptStore_UnwritableDirServesDefaults(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store, err := NewPromptStore(filepath.Join(blocker, "prompts"))
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptInstructions)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInstructions, prompt)
}
