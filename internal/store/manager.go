// Package store keeps a local history of downloaded videos so repeated
// downloads can be skipped.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const defaultDataFile = ".drivevids-history.json"

// Manager handles the download history of one folder
type Manager struct {
	dataPath string
	folderID string
	data     *HistoryData
	mu       sync.RWMutex
	saveMu   sync.Mutex
}

// NewManager loads the history file. An empty dataPath means
// ~/.drivevids-history.json; a missing file starts an empty history.
func NewManager(dataPath, folderID string) (*Manager, error) {
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataPath = filepath.Join(home, defaultDataFile)
	}

	m := &Manager{
		dataPath: dataPath,
		folderID: folderID,
		data: &HistoryData{
			Folders: make(map[string]*FolderHistory),
		},
	}

	if err := m.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load download history: %w", err)
	}
	if m.data.Folders == nil {
		m.data.Folders = make(map[string]*FolderHistory)
	}
	for id, folder := range m.data.Folders {
		if folder == nil {
			delete(m.data.Folders, id)
			continue
		}
		if folder.Downloads == nil {
			folder.Downloads = make(map[string]Download)
		}
	}
	return m, nil
}

// Path returns the history file location.
func (m *Manager) Path() string {
	return m.dataPath
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.dataPath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, m.data)
}

// Save writes the history atomically.
func (m *Manager) Save() error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.RLock()
	data, err := json.MarshalIndent(m.data, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal download history: %w", err)
	}

	dir := filepath.Dir(m.dataPath)
	tmp, err := os.CreateTemp(dir, ".drivevids-history-*")
	if err != nil {
		return fmt.Errorf("failed to write download history: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write download history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write download history: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.dataPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write download history: %w", err)
	}
	return nil
}

// Record stores a finished download of id, measuring the file at path.
func (m *Manager) Record(id, name, path string) (Download, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Download{}, fmt.Errorf("failed to stat download: %w", err)
	}
	sum, err := CalculateChecksum(path)
	if err != nil {
		return Download{}, err
	}

	d := Download{
		ID:       id,
		Name:     name,
		Path:     path,
		Size:     info.Size(),
		Checksum: sum,
		SavedAt:  time.Now(),
	}

	m.mu.Lock()
	folder := m.data.Folders[m.folderID]
	if folder == nil {
		folder = &FolderHistory{FolderID: m.folderID}
		m.data.Folders[m.folderID] = folder
	}
	if folder.Downloads == nil {
		folder.Downloads = make(map[string]Download)
	}
	folder.Downloads[id] = d
	folder.UpdatedAt = d.SavedAt
	m.mu.Unlock()

	return d, nil
}

// Downloaded reports whether id was saved earlier and the file is still on
// disk with the recorded size.
func (m *Manager) Downloaded(id string) (Download, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	folder := m.data.Folders[m.folderID]
	if folder == nil {
		return Download{}, false
	}
	d, ok := folder.Downloads[id]
	if !ok {
		return Download{}, false
	}
	info, err := os.Stat(d.Path)
	if err != nil || info.Size() != d.Size {
		return Download{}, false
	}
	return d, true
}

// Forget removes id from the history.
func (m *Manager) Forget(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	folder := m.data.Folders[m.folderID]
	if folder == nil {
		return false
	}
	if _, ok := folder.Downloads[id]; !ok {
		return false
	}
	delete(folder.Downloads, id)
	folder.UpdatedAt = time.Now()
	return true
}

// All returns the folder's downloads, newest first.
func (m *Manager) All() []Download {
	m.mu.RLock()
	defer m.mu.RUnlock()

	folder := m.data.Folders[m.folderID]
	if folder == nil {
		return nil
	}
	out := make([]Download, 0, len(folder.Downloads))
	for _, d := range folder.Downloads {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out
}

// CalculateChecksum calculates SHA256 checksum of a file
func CalculateChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
