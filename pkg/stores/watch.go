package stores

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openfroyo/vendcheck/pkg/machine"
)

// DefaultWatchDelay is how long a changed input must stay quiet before the
// watch callback fires for it.
const DefaultWatchDelay = 500 * time.Millisecond

// Watch calls fn with the input identifier whenever a record file in the
// input directory is created or written. Events for the same file are
// debounced by delay. Watch blocks until ctx is done.
func (s *FileStore) Watch(ctx context.Context, delay time.Duration, fn func(id string)) error {
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.inputDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.inputDir, err)
	}

	s.logger.Info().Str("dir", s.inputDir).Msg("Watching for input changes")

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			id := filepath.Base(event.Name)
			if strings.HasPrefix(id, ".") || !machine.IsRecordFile(id) {
				continue
			}

			s.logger.Debug().
				Str("input", id).
				Str("op", event.Op.String()).
				Msg("Input changed")

			mu.Lock()
			if t, exists := timers[id]; exists {
				t.Stop()
			}
			var timer *time.Timer
			timer = time.AfterFunc(delay, func() {
				mu.Lock()
				if timers[id] == timer {
					delete(timers, id)
				}
				mu.Unlock()
				if ctx.Err() == nil {
					fn(id)
				}
			})
			timers[id] = timer
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}
