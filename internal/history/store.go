// Package history keeps past analyses on disk, one JSON file per report.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ppiankov/jimaku/internal/model"
)

var (
	// ErrNotFound is returned when no stored analysis matches an id
	ErrNotFound = errors.New("analysis not found")

	// ErrAmbiguous is returned when an id prefix matches several analyses
	ErrAmbiguous = errors.New("id prefix matches more than one analysis")
)

const minPrefixLen = 4

// Entry is the listing view of a stored analysis
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	Files      int       `json:"files"`
	Difficulty int       `json:"difficulty"`
	Level      string    `json:"level"`
	Words      int       `json:"words"` // Scored lemma occurrences
}

// Store reads and writes analyses under a directory. Writers take an
// exclusive file lock so concurrent jimaku processes do not interleave.
type Store struct {
	dir  string
	lock *flock.Flock
}

// NewStore opens (creating if needed) a history directory
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Dir returns the store directory
func (s *Store) Dir() string {
	return s.dir
}

// Save stores report, assigning an ID and timestamp when missing, and
// returns the ID
func (s *Store) Save(report *model.Report) (string, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return "", fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(s.dir, ".report-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(report.ID)); err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	return report.ID, nil
}

// List returns every stored analysis, newest first
func (s *Store) List() ([]Entry, error) {
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	ids, err := s.ids()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		report, err := s.read(id)
		if err != nil {
			// unreadable files are skipped; Get reports them
			continue
		}
		entries = append(entries, Entry{
			ID:         report.ID,
			Title:      report.Title,
			CreatedAt:  report.CreatedAt,
			Files:      len(report.Files),
			Difficulty: report.Score.Difficulty,
			Level:      report.Score.Level,
			Words:      report.Stats.Lemmas,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Get loads an analysis by full id or unique prefix
func (s *Store) Get(idOrPrefix string) (*model.Report, error) {
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	return s.read(id)
}

// Delete removes an analysis by full id or unique prefix and returns the
// full id
func (s *Store) Delete(idOrPrefix string) (string, error) {
	if err := s.lock.Lock(); err != nil {
		return "", fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return "", err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("delete %s: %w", id, err)
	}
	return id, nil
}

// resolve maps a full id or unique prefix to a stored id
func (s *Store) resolve(idOrPrefix string) (string, error) {
	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if _, err := uuid.Parse(idOrPrefix); err == nil {
		if _, err := os.Stat(s.path(idOrPrefix)); err != nil {
			return "", ErrNotFound
		}
		return idOrPrefix, nil
	}
	if len(idOrPrefix) < minPrefixLen {
		return "", ErrNotFound
	}

	ids, err := s.ids()
	if err != nil {
		return "", err
	}
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, idOrPrefix) {
			if match != "" {
				return "", ErrAmbiguous
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}

// ids lists stored report ids (file names that parse as UUIDs)
func (s *Store) ids() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}
	var ids []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) read(id string) (*model.Report, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &report, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
