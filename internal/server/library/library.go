package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/civicstack/mediavault/internal/server/session"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS media (
	key TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size INTEGER NOT NULL,
	etag TEXT NOT NULL,
	uploaded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_media_mime_type ON media(mime_type);
CREATE INDEX IF NOT EXISTS idx_media_uploaded_at ON media(uploaded_at);
`

// MediaItem is one persisted upload result, as listed in the admin media
// library.
type MediaItem struct {
	Key        string `json:"key" db:"key"`
	URL        string `json:"url" db:"url"`
	Filename   string `json:"filename" db:"filename"`
	MimeType   string `json:"mimeType" db:"mime_type"`
	Size       int64  `json:"size" db:"size"`
	ETag       string `json:"etag" db:"etag"`
	UploadedAt string `json:"uploadedAt" db:"uploaded_at"`
}

// Filter narrows a library listing.
type Filter struct {
	Prefix   string
	MimeType string
	Limit    int
}

// Library stores completed upload metadata in SQLite. The upload core itself
// does not persist results; the library is the media-library call site's row
// store.
type Library struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) (*Library, error) {
	lib := &Library{db: db}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize media library: %w", err)
	}
	return lib, nil
}

// Open opens (or creates) a library database at the given path.
func Open(path string) (*Library, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open media library db: %w", err)
	}
	return New(db)
}

func (l *Library) Close() error {
	return l.db.Close()
}

// Record adds or updates a completed upload.
func (l *Library) Record(upload *session.CompletedUpload) error {
	_, err := l.db.Exec(
		`INSERT OR REPLACE INTO media (key, url, filename, mime_type, size, etag, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		upload.Key, upload.URL, upload.Filename, upload.MimeType, upload.Size, upload.ETag,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Get retrieves one item by key.
func (l *Library) Get(key string) (*MediaItem, bool) {
	var item MediaItem
	err := l.db.Get(&item, "SELECT key, url, filename, mime_type, size, etag, uploaded_at FROM media WHERE key = ?", key)
	if err != nil {
		return nil, false
	}
	return &item, true
}

// List returns items matching the filter, newest first.
func (l *Library) List(filter *Filter) ([]*MediaItem, error) {
	query := "SELECT key, url, filename, mime_type, size, etag, uploaded_at FROM media"
	var conds []string
	var args []any

	if filter != nil && filter.Prefix != "" {
		conds = append(conds, "key LIKE ?")
		args = append(args, filter.Prefix+"%")
	}
	if filter != nil && filter.MimeType != "" {
		conds = append(conds, "mime_type LIKE ?")
		args = append(args, filter.MimeType+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY uploaded_at DESC"
	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var items []*MediaItem
	if err := l.db.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return items, nil
}

// Remove deletes an item from the library.
func (l *Library) Remove(key string) error {
	_, err := l.db.Exec("DELETE FROM media WHERE key = ?", key)
	return err
}
