package keyprovider

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// File reads the master data key from a file on disk and reloads it when
// the file changes, so the key can be rotated without a restart. Secrets
// encrypted before a rotation remain readable only while the old key is
// still active; re-encryption is an operator concern.
type File struct {
	path    string
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	dataKey []byte
}

var _ Provider = (*File)(nil)

// NewFile loads the key file and starts watching it for writes.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create key file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch key file %s: %w", path, err)
	}

	f.watcher = watcher
	go f.watch()

	return f, nil
}

func (f *File) Key(tenantID string) ([]byte, error) {
	f.mu.RLock()
	dataKey := f.dataKey
	f.mu.RUnlock()

	if dataKey == nil {
		return nil, ErrNoKey
	}
	return deriveTenantKey(dataKey, tenantID), nil
}

// Close stops watching the key file.
func (f *File) Close() error {
	if f.watcher == nil {
		return nil
	}
	return f.watcher.Close()
}

func (f *File) reload() error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("%w: failed to read key file %s: %v", ErrNoKey, f.path, err)
	}

	dataKey, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("%w: key file %s is not valid base64: %v", ErrNoKey, f.path, err)
	}
	if err := validateDataKey(dataKey); err != nil {
		return err
	}

	f.mu.Lock()
	f.dataKey = dataKey
	f.mu.Unlock()
	return nil
}

func (f *File) watch() {
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				if err := f.reload(); err != nil {
					log.Printf("key file reload failed, keeping previous key: %v", err)
				} else {
					log.Printf("reloaded data key from %s", f.path)
				}
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("key file watcher error: %v", err)
		}
	}
}
