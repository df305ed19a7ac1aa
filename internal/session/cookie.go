package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/naveenspark/storefront/pkg/domain"
)

// CookieName is the cookie entry that carries the serialized session.
const CookieName = "userInfo"

type cookieEntry struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Updated time.Time `json:"updated"`
}

// CookieJar is a file-backed cookie store. The session record lives in a
// single named entry whose value is the URL-escaped JSON record; other
// entries in the file are preserved.
type CookieJar struct {
	path string
	name string
}

// NewCookieJar returns a jar persisted at path using the default cookie name.
func NewCookieJar(path string) *CookieJar {
	return &CookieJar{path: path, name: CookieName}
}

// Path returns the file the jar is stored in.
func (j *CookieJar) Path() string { return j.path }

func (j *CookieJar) readEntries() ([]cookieEntry, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []cookieEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse cookie jar: %w", err)
	}
	return entries, nil
}

// writeEntries replaces the jar file atomically: write to a temp file,
// then rename over the original.
func (j *CookieJar) writeEntries(entries []cookieEntry) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookie jar: %w", err)
	}
	stage := j.path + ".new"
	if err := os.WriteFile(stage, data, 0600); err != nil {
		return fmt.Errorf("write cookie jar: %w", err)
	}
	if err := os.Rename(stage, j.path); err != nil {
		os.Remove(stage) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("replace cookie jar: %w", err)
	}
	return nil
}

// Load returns the stored session record, or nil if the cookie is absent.
func (j *CookieJar) Load() (*domain.SessionRecord, error) {
	entries, err := j.readEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name != j.name {
			continue
		}
		raw, err := url.PathUnescape(e.Value)
		if err != nil {
			return nil, fmt.Errorf("unescape %s cookie: %w", j.name, err)
		}
		var rec domain.SessionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode %s cookie: %w", j.name, err)
		}
		return &rec, nil
	}
	return nil, nil
}

// Save writes rec into the session cookie, replacing any previous value.
func (j *CookieJar) Save(rec domain.SessionRecord) error {
	entries, err := j.readEntries()
	if err != nil {
		// A corrupt jar is replaced rather than blocking the write.
		entries = nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s cookie: %w", j.name, err)
	}
	entry := cookieEntry{Name: j.name, Value: escapeValue(string(data)), Path: "/", Updated: time.Now().UTC()}

	replaced := false
	for i := range entries {
		if entries[i].Name == j.name {
			entries[i] = entry
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return j.writeEntries(entries)
}

// escapeValue percent-encodes s the way encodeURIComponent does for the
// characters a JSON record contains: a space becomes %20, never '+'.
func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Clear removes the session cookie, leaving other entries intact.
func (j *CookieJar) Clear() error {
	entries, err := j.readEntries()
	if err != nil {
		// Unreadable jar: nothing worth keeping.
		if rmErr := os.Remove(j.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("remove cookie jar: %w", rmErr)
		}
		return nil
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Name != j.name {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return j.writeEntries(kept)
}
