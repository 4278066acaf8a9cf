package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type File struct {
	mu    sync.Mutex
	path  string
	fired map[Key]bool
}

type fileState struct {
	FiredKeys []string `json:"fired_keys"`
}

func OpenFile(path string) (*File, error) {
	fired := make(map[Key]bool)
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil && strings.TrimSpace(string(raw)) != "" {
		var state fileState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, err
		}
		for _, key := range state.FiredKeys {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			fired[Key(key)] = true
		}
	}
	return &File{path: path, fired: fired}, nil
}

func (f *File) IsFired(key Key) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired[key], nil
}

func (f *File) MarkFired(key Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fired[key] {
		return nil
	}
	next := make(map[Key]bool, len(f.fired)+1)
	for k := range f.fired {
		next[k] = true
	}
	next[key] = true
	if err := f.persist(next); err != nil {
		return err
	}
	f.fired = next
	return nil
}

func (f *File) MarkedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fired)
}

func (f *File) persist(fired map[Key]bool) error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	keys := make([]string, 0, len(fired))
	for key := range fired {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	payload, err := json.MarshalIndent(fileState{FiredKeys: keys}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
