package store

import "time"

// Download records one video saved to disk
type Download struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Checksum string    `json:"checksum"`
	SavedAt  time.Time `json:"saved_at"`
}

// FolderHistory holds the downloads of one Drive folder
type FolderHistory struct {
	FolderID  string              `json:"folder_id"`
	UpdatedAt time.Time           `json:"updated_at"`
	Downloads map[string]Download `json:"downloads"` // key is Drive file id
}

// HistoryData is the on-disk document
type HistoryData struct {
	Folders map[string]*FolderHistory `json:"folders"` // key is folder id
}
