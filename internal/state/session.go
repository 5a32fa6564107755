// Package state persists per-session records for one-shot hook invocations.
// Each host session gets its own JSON file in the state directory so that a
// fresh `warden hook` process can pick up where the previous one left off.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/warden-dev/warden/internal/gate"
	"github.com/warden-dev/warden/internal/recall"
)

const fileExt = ".json"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Session is everything warden remembers about one host session.
type Session struct {
	ID        string       `json:"id"`
	Gate      gate.State   `json:"gate"`
	Recall    recall.State `json:"recall"`
	UpdatedAt time.Time    `json:"updated_at,omitempty"`
}

// Store reads and writes session files under Dir.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// FileName maps a session id to a safe file name. The empty id is a valid
// session and maps to "default.json".
func FileName(sessionID string) string {
	name := unsafeChars.ReplaceAllString(sessionID, "_")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "default"
	}
	return name + fileExt
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.Dir, FileName(sessionID))
}

// Load returns the stored session. A missing or corrupt file yields a fresh
// session; only read errors are returned.
func (s *Store) Load(sessionID string) (*Session, error) {
	fresh := &Session{ID: sessionID}

	data, err := os.ReadFile(s.path(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return fresh, nil
	}
	sess.ID = sessionID
	return &sess, nil
}

// Save persists the session using an atomic write: the data goes to a .tmp
// file which is then renamed over the final path.
func (s *Store) Save(sessionID string, sess *Session) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	sess.ID = sessionID
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	finalPath := s.path(sessionID)
	tmpPath := finalPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Prune removes session files not modified within maxAge and returns how
// many were removed. A missing directory is not an error.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("listing state directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
