package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptFile describes one editable prompt.
type promptFile struct {
	name     string
	fallback string
	about    string
}

var promptFiles = []promptFile{
	{
		name:     driven.PromptInstructions,
		fallback: domain.DefaultInstructions,
		about:    "Guardrails appended to every consultation prompt",
	},
	{
		name:     driven.PromptAgentSystem,
		fallback: domain.DefaultAgentSystemPrompt,
		about:    "System message of the openai agent; {{disclaimer}} and {{profile}} are substituted",
	},
}

func lookupPrompt(name string) (promptFile, bool) {
	for _, p := range promptFiles {
		if p.name == name {
			return p, true
		}
	}
	return promptFile{}, false
}

// PromptStore serves prompt text from <dir>/<name>.txt. The directory is
// seeded with the built-in prompts and a README the first time a prompt is
// loaded. Files are read on every Load, so edits apply to the next
// consultation without a restart.
type PromptStore struct {
	dir string

	mu     sync.Mutex
	seeded bool
}

// NewPromptStore creates a prompt store rooted at dir.
// If dir is empty, defaults to ~/.medrag/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir}, nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the trimmed contents of the prompt file, or the built-in
// text when the file is missing, empty or unreadable.
func (s *PromptStore) Load(name string) (string, error) {
	p, known := lookupPrompt(name)
	s.seed()

	data, err := os.ReadFile(s.path(name))
	if err == nil {
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
	}
	if known {
		return p.fallback, nil
	}
	if err == nil {
		err = domain.ErrEmptyContent
	}
	return "", fmt.Errorf("load prompt %q: %w", name, err)
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed writes the default files once. A failure leaves the store serving
// built-in prompts and is retried on the next Load.
func (s *PromptStore) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return
	}
	if err := s.writeDefaults(); err != nil {
		logger.Debug("Prompt directory %s not seeded: %v", s.dir, err)
		return
	}
	s.seeded = true
}

func (s *PromptStore) writeDefaults() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for _, p := range promptFiles {
		if err := writeIfMissing(s.path(p.name), p.fallback); err != nil {
			return fmt.Errorf("write prompt %q: %w", p.name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme())
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content+"\n"), 0600)
}

func promptReadme() string {
	var b strings.Builder
	b.WriteString("# medrag prompts\n\n")
	b.WriteString("Edit these files to change how consultations are phrased.\n")
	b.WriteString("An empty or deleted file falls back to the built-in text.\n\n")
	for _, p := range promptFiles {
		fmt.Fprintf(&b, "- `%s.txt`: %s\n", p.name, p.about)
	}
	return b.String()
}
