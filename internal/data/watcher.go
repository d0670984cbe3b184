package data

import (
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadableReader wraps an MmdbReader and swaps in fresh readers when
// the database files change on disk, so a long-running server picks up
// GeoLite updates without a restart. Lookups in flight during a swap
// finish on the old readers before those are closed.
type ReloadableReader struct {
	asnPath  string
	cityPath string

	mu     sync.RWMutex
	reader *MmdbReader
}

// NewReloadableReader opens the databases and returns a reader that can
// be reloaded. The initial open failing is a startup error, same as
// NewMmdbReader.
func NewReloadableReader(asnPath, cityPath string) (*ReloadableReader, error) {
	reader, err := NewMmdbReader(asnPath, cityPath)
	if err != nil {
		return nil, err
	}
	return &ReloadableReader{
		asnPath:  asnPath,
		cityPath: cityPath,
		reader:   reader,
	}, nil
}

// LookupASN delegates to the current underlying reader.
func (r *ReloadableReader) LookupASN(ip net.IP) (ASNRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reader.LookupASN(ip)
}

// LookupCity delegates to the current underlying reader.
func (r *ReloadableReader) LookupCity(ip net.IP) (CityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reader.LookupCity(ip)
}

// Close closes the current underlying reader.
func (r *ReloadableReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reader.Close()
}

// Reload opens fresh readers from the configured paths and swaps them in.
// On failure the previous readers stay in service.
func (r *ReloadableReader) Reload() error {
	next, err := NewMmdbReader(r.asnPath, r.cityPath)
	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	r.mu.Lock()
	old := r.reader
	r.reader = next
	r.mu.Unlock()
	return old.Close()
}

// Watch blocks watching the database directory and reloads the readers
// whenever either database file is rewritten, created, or renamed into
// place. It returns when done is closed or the watcher fails.
func (r *ReloadableReader) Watch(done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create database watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directories; updates usually arrive as a
	// rename of a freshly downloaded file over the old one, which a
	// watch on the file itself would miss.
	dirs := map[string]struct{}{
		filepath.Dir(r.asnPath):  {},
		filepath.Dir(r.cityPath): {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.affectsDatabase(event) {
				continue
			}
			slog.Info("database file changed, reloading", "file", event.Name, "op", event.Op.String())
			if err := r.Reload(); err != nil {
				slog.Error("database reload failed, keeping previous readers", "error", err)
			} else {
				slog.Info("database reloaded", "file", event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("database watcher error", "error", err)
		}
	}
}

func (r *ReloadableReader) affectsDatabase(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == filepath.Clean(r.asnPath) || name == filepath.Clean(r.cityPath)
}
