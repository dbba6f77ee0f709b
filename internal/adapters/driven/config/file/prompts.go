package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
	"github.com/custodia-labs/linuxrag/internal/core/services"
	"github.com/custodia-labs/linuxrag/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// defaultPrompts contains embedded default prompts. They are used when user
// files don't exist and as the initial content for new files.
var defaultPrompts = map[string]string{
	driven.PromptAskSystem: services.DefaultSystemInstruction,
}

// PromptStore loads prompts from user-editable files on disk, falling back
// to embedded defaults. Files are only created when first accessed, not in
// the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store rooted at promptDir.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		return nil, fmt.Errorf("prompt directory is empty")
	}
	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// init creates the prompt directory and seeds missing files with defaults.
func (p *PromptStore) init() error {
	p.initOnce.Do(func() {
		if err := os.MkdirAll(p.promptDir, 0700); err != nil {
			p.initErr = fmt.Errorf("creating prompt directory: %w", err)
			return
		}
		for name, content := range defaultPrompts {
			path := p.filePath(name)
			if _, err := os.Stat(path); err == nil {
				continue
			}
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				p.initErr = fmt.Errorf("seeding prompt %s: %w", name, err)
				return
			}
		}
	})
	return p.initErr
}

func (p *PromptStore) filePath(name string) string {
	return filepath.Join(p.promptDir, name+".txt")
}

// Load returns the prompt template for the given name, preferring the
// on-disk file over the embedded default.
func (p *PromptStore) Load(name string) (string, error) {
	p.mu.RLock()
	if cached, ok := p.cache[name]; ok {
		p.mu.RUnlock()
		return cached, nil
	}
	p.mu.RUnlock()

	if err := p.init(); err != nil {
		if fallback, ok := defaultPrompts[name]; ok {
			return fallback, nil
		}
		return "", err
	}

	data, err := os.ReadFile(p.filePath(name))
	if err != nil {
		if fallback, ok := defaultPrompts[name]; ok {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt %q not found: %w", name, err)
	}

	content := strings.TrimSpace(string(data))
	p.mu.Lock()
	p.cache[name] = content
	p.mu.Unlock()
	return content, nil
}

// Reload clears the cache, forcing fresh loads on next access.
func (p *PromptStore) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[string]string)
}

// Watch invalidates the cache whenever a prompt file changes on disk.
// The returned function stops the watcher.
func (p *PromptStore) Watch() (func() error, error) {
	if err := p.init(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating prompt watcher: %w", err)
	}
	if err := watcher.Add(p.promptDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", p.promptDir, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
					logger.Debug("prompt file changed: %s", ev.Name)
					p.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()

	return watcher.Close, nil
}
