package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/skill"
)

// FileStore persists a single profile document as JSON on disk.
//
// Load never fails: a missing, unreadable or malformed document yields a
// fresh profile. Save replaces the file atomically. Update serialises
// load-modify-save cycles within the process.
type FileStore struct {
	path      string
	studentID string
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for self-heal warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

// WithStudentID sets the id written into freshly created profiles.
func WithStudentID(id string) Option {
	return func(s *FileStore) { s.studentID = id }
}

// NewFileStore creates a store for the document at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:      path,
		studentID: DefaultStudentID,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored profile. Any failure results in a new empty profile;
// the offending bytes are kept next to the document with a .corrupt suffix.
func (s *FileStore) Load() *Profile {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("profile unreadable, starting fresh",
				zap.String("path", s.path), zap.Error(err))
		}
		return s.fresh()
	}

	p, err := decode(raw)
	if err != nil {
		s.quarantine(raw, err)
		return s.fresh()
	}
	return p
}

// Save writes the whole document, replacing any previous content.
func (s *FileStore) Save(p *Profile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return writeAtomic(s.path, data)
}

// Update records one completed evaluation and persists the result.
func (s *FileStore) Update(scores map[string]float64, skills skill.Profile) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Load()
	p.Record(scores, skills, s.now())

	if err := s.Save(p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

func (s *FileStore) fresh() *Profile {
	return New(s.studentID, s.now())
}

func (s *FileStore) quarantine(raw []byte, cause error) {
	backup := s.path + ".corrupt"
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		s.logger.Error("could not keep corrupt profile",
			zap.String("path", backup), zap.Error(err))
	}
	s.logger.Warn("profile corrupt, starting fresh",
		zap.String("path", s.path),
		zap.String("backup", backup),
		zap.Error(cause))
}

func decode(raw []byte) (*Profile, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.Topics == nil {
		p.Topics = make(map[string]*TopicRecord)
	}
	for topic, rec := range p.Topics {
		if rec == nil {
			p.Topics[topic] = &TopicRecord{History: []HistoryEntry{}}
			continue
		}
		if rec.History == nil {
			rec.History = []HistoryEntry{}
		}
	}
	return &p, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}
