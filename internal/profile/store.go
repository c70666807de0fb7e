package profile

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 100 * time.Millisecond

// Store serves the current profile and reloads it when its file changes.
// A Store without a path serves the embedded profile forever.
type Store struct {
	path   string
	logger *zap.Logger

	mu       sync.RWMutex
	current  *Profile
	onChange []func(*Profile)
}

// NewStore loads path, or the embedded profile when path is empty.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger}
	if path == "" {
		s.current = Default()
		return s, nil
	}
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current = p
	return s, nil
}

// Get returns the current profile. Callers must not mutate it.
func (s *Store) Get() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnChange registers fn to run after every successful reload.
func (s *Store) OnChange(fn func(*Profile)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Reload re-reads the file. On error the previous profile stays in place.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	p, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = p
	fns := slices.Clone(s.onChange)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
	return nil
}

// Watch reloads the profile whenever its file is written or replaced, until
// ctx is cancelled. The parent directory is watched so editors that save by
// rename are picked up. For the embedded profile it just waits for ctx.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", s.path, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info("watching profile", zap.String("path", target))

	// Bursts of events from a single save collapse into one reload.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("profile watcher error", zap.Error(err))

		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.logger.Warn("profile reload failed, keeping previous", zap.Error(err))
				continue
			}
			s.logger.Info("profile reloaded", zap.String("name", s.Get().Name))
		}
	}
}
