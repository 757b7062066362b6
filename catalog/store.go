// Package catalog persists the registered course catalog as a single JSON
// file keyed by registration URL. The whole catalog is rewritten on every
// mutation; saves are atomic (write-new-then-rename) and guarded by an
// advisory file lock so an interrupted run never corrupts the file.
package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// Store owns the persisted course catalog for the lifetime of the process.
// No other component mutates the catalog directly.
type Store struct {
	path string
	lock *FileLock
	data *catalogData
	mu   sync.RWMutex
}

// catalogData is the top-level JSON structure.
type catalogData struct {
	Version   string             `json:"version"`
	Revision  string             `json:"revision"` // new UUID on every save
	UpdatedAt time.Time          `json:"updated_at"`
	Courses   map[string]*Course `json:"courses"` // keyed by registration URL
}

// Open loads the catalog at the given path. If the file does not exist an
// empty catalog is created; a second process holding the lock makes Open
// fail with ErrLockTimeout.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	return s, nil
}

// load reads the JSON file into memory. Creates empty data if the file
// doesn't exist.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.data = newCatalogData()
			// Save immediately to catch permission errors early
			return s.save()
		}
		return &StorageError{Op: "read", Entity: "catalog", Err: err}
	}

	s.data = &catalogData{}
	if err := json.Unmarshal(data, s.data); err != nil {
		return &StorageError{Op: "read", Entity: "catalog", Err: ErrStorageCorrupt}
	}

	if s.data.Courses == nil {
		s.data.Courses = make(map[string]*Course)
	}

	return nil
}

// save persists the data to disk atomically.
func (s *Store) save() error {
	s.data.UpdatedAt = time.Now()
	s.data.Revision = uuid.NewString()

	writer, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "catalog", Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: "catalog", Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "catalog", Err: err}
	}

	return nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Unlock()
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

func newCatalogData() *catalogData {
	return &catalogData{
		Version:   schemaVersion,
		Revision:  uuid.NewString(),
		UpdatedAt: time.Now(),
		Courses:   make(map[string]*Course),
	}
}

// Get returns the course registered at url.
func (s *Store) Get(url string) (*Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, exists := s.data.Courses[url]
	if !exists {
		return nil, &StorageError{Op: "read", Entity: "course", ID: url, Err: ErrNotFound}
	}
	return course, nil
}

// List returns all registered courses ordered by URL.
func (s *Store) List() []*Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]*Course, 0, len(s.data.Courses))
	for _, c := range s.data.Courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].URL < courses[j].URL })
	return courses
}

// Insert adds a new course and persists the catalog. First write wins:
// inserting an already registered URL fails with ErrAlreadyExists and
// leaves the catalog untouched.
func (s *Store) Insert(course *Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Courses[course.URL]; exists {
		return &StorageError{Op: "create", Entity: "course", ID: course.URL, Err: ErrAlreadyExists}
	}

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	s.data.Courses[course.URL] = course

	return s.save()
}

// Put overwrites an existing course and persists the catalog.
func (s *Store) Put(course *Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.data.Courses[course.URL]
	if !exists {
		return &StorageError{Op: "update", Entity: "course", ID: course.URL, Err: ErrNotFound}
	}

	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = time.Now()
	s.data.Courses[course.URL] = course

	return s.save()
}

// Delete removes the course at url if present and reports whether a
// removal occurred. It is idempotent; deleting an absent course is not an
// error and does not rewrite the catalog.
func (s *Store) Delete(url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Courses[url]; !exists {
		return false, nil
	}

	delete(s.data.Courses, url)
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// SetResumeOffset overwrites the course's last-played offset and persists
// the catalog.
func (s *Store) SetResumeOffset(url string, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, exists := s.data.Courses[url]
	if !exists {
		return &StorageError{Op: "update", Entity: "course", ID: url, Err: ErrNotFound}
	}

	course.LastPlayedSeconds = seconds
	course.UpdatedAt = time.Now()

	return s.save()
}
