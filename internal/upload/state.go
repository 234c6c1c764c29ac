package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB tracks which recording files have already been analyzed so repeated
// runs over the same directory do not re-submit them.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS processed_files (
		path         TEXT PRIMARY KEY,
		size         INTEGER NOT NULL,
		hash         TEXT NOT NULL,
		analysis_id  TEXT NOT NULL DEFAULT '',
		processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsProcessed checks if a file has already been analyzed with the same size
// and hash. A file that changed since its last run is treated as new.
func (s *StateDB) IsProcessed(relPath string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM processed_files WHERE path = ? AND size = ? AND hash = ?`,
		relPath, size, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkProcessed records that a file was successfully analyzed. analysisID is
// the server-assigned ID, or empty for files skipped as unusable.
func (s *StateDB) MarkProcessed(relPath string, size int64, hash string, analysisID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO processed_files (path, size, hash, analysis_id) VALUES (?, ?, ?, ?)`,
		relPath, size, hash, analysisID,
	)
	return err
}

// AnalysisID returns the stored analysis ID for a previously processed file,
// or empty if the file is unknown.
func (s *StateDB) AnalysisID(relPath string) (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT analysis_id FROM processed_files WHERE path = ?`, relPath,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
