package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileStore serves prompts from a YAML file and reloads them when the file
// changes. A file that fails to parse leaves the previous prompts in place.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	items  []SamplePrompt
	logger *zap.Logger
	done   chan struct{}
}

// NewFileStore loads path. The file must be valid on first load.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   filepath.Clean(path),
		logger: zap.L().Named("prompts"),
		done:   make(chan struct{}),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns the prompts in display order.
func (s *FileStore) List() []SamplePrompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SamplePrompt(nil), s.items...)
}

// FindByID looks up a prompt by identifier.
func (s *FileStore) FindByID(id string) (SamplePrompt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return SamplePrompt{}, false
}

// Watch starts reloading on changes until ctx is cancelled. The directory is
// watched rather than the file so that editors replacing it are noticed.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", s.path, err)
	}

	go func() {
		defer close(s.done)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.reload(); err != nil {
					s.logger.Warn("prompt reload failed", zap.String("path", s.path), zap.Error(err))
					continue
				}
				s.logger.Info("prompts reloaded", zap.String("path", s.path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("prompt watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Done is closed once a started watch has stopped.
func (s *FileStore) Done() <-chan struct{} {
	return s.done
}

func (s *FileStore) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read sample prompts: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%s: no sample prompts defined", s.path)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}
