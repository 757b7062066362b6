package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testCourse() *Course {
	return &Course{
		URL:        "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L",
		Name:       "Algorithms",
		Protection: ProtectionPassword,
		Username:   "alice",
		Password:   "secret",
		Episodes: []Episode{
			{
				ID:              "ep1",
				Title:           "Lecture 1",
				CreatedAt:       time.Date(2022, 2, 22, 10, 0, 0, 0, time.UTC),
				DurationSeconds: 600,
				Presentations: []Presentation{
					{Height: 1080, URL: "https://cdn.example/ep1_1080.mp4"},
					{Height: 720, URL: "https://cdn.example/ep1_720.mp4"},
				},
			},
			{
				ID:              "ep2",
				Title:           "Lecture 2",
				CreatedAt:       time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC),
				DurationSeconds: 900,
				Presentations: []Presentation{
					{Height: 1080, URL: "https://cdn.example/ep2_1080.mp4"},
				},
			},
		},
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	// File should exist after creation
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("catalog file was not created")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	course := testCourse()
	course.LastPlayedSeconds = 930
	if err := store.Insert(course); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	store.Close()

	// Reopen and verify structural equality.
	store2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	defer store2.Close()

	loaded, err := store2.Get(course.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if loaded.Name != course.Name || loaded.Protection != course.Protection {
		t.Errorf("loaded course = %q/%q, want %q/%q", loaded.Name, loaded.Protection, course.Name, course.Protection)
	}
	if loaded.Username != "alice" || loaded.Password != "secret" {
		t.Errorf("loaded credentials = %q/%q", loaded.Username, loaded.Password)
	}
	if loaded.LastPlayedSeconds != 930 {
		t.Errorf("loaded resume offset = %d, want 930", loaded.LastPlayedSeconds)
	}
	if len(loaded.Episodes) != len(course.Episodes) {
		t.Fatalf("loaded episode count = %d, want %d", len(loaded.Episodes), len(course.Episodes))
	}
	for i, ep := range course.Episodes {
		got := loaded.Episodes[i]
		if got.ID != ep.ID || got.DurationSeconds != ep.DurationSeconds {
			t.Errorf("episode[%d] = %+v, want %+v", i, got, ep)
		}
		if !got.CreatedAt.Equal(ep.CreatedAt) {
			t.Errorf("episode[%d] createdAt = %v, want %v", i, got.CreatedAt, ep.CreatedAt)
		}
		if len(got.Presentations) != len(ep.Presentations) {
			t.Fatalf("episode[%d] presentation count = %d, want %d", i, len(got.Presentations), len(ep.Presentations))
		}
		for j, pres := range ep.Presentations {
			if got.Presentations[j] != pres {
				t.Errorf("episode[%d] presentation[%d] = %+v, want %+v", i, j, got.Presentations[j], pres)
			}
		}
	}
}

func TestStore_InsertDuplicate(t *testing.T) {
	store := newTestStore(t)

	if err := store.Insert(testCourse()); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// First write wins.
	dup := testCourse()
	dup.Name = "Renamed"
	err := store.Insert(dup)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Insert() duplicate error = %v, want ErrAlreadyExists", err)
	}

	kept, err := store.Get(dup.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if kept.Name != "Algorithms" {
		t.Errorf("course name after duplicate insert = %q, want Algorithms", kept.Name)
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	course := testCourse()

	if err := store.Insert(course); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	removed, err := store.Delete(course.URL)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !removed {
		t.Error("Delete() = false, want true on first removal")
	}

	afterFirst, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}

	removed, err = store.Delete(course.URL)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if removed {
		t.Error("Delete() = true, want false on second removal")
	}

	afterSecond, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if string(afterFirst) != string(afterSecond) {
		t.Error("catalog changed after deleting an absent course")
	}
}

func TestStore_PutMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Put(testCourse())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Put() error = %v, want ErrNotFound", err)
	}
}

func TestStore_PutOverwritesEpisodes(t *testing.T) {
	store := newTestStore(t)
	course := testCourse()

	if err := store.Insert(course); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	updated := testCourse()
	updated.Episodes = updated.Episodes[:1]
	if err := store.Put(updated); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(course.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Episodes) != 1 {
		t.Errorf("episode count after Put = %d, want 1", len(got.Episodes))
	}
}

func TestStore_SetResumeOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	course := testCourse()
	if err := store.Insert(course); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.SetResumeOffset(course.URL, 930); err != nil {
		t.Fatalf("SetResumeOffset() error = %v", err)
	}
	store.Close()

	store2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	defer store2.Close()

	loaded, err := store2.Get(course.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.LastPlayedSeconds != 930 {
		t.Errorf("resume offset = %d, want 930", loaded.LastPlayedSeconds)
	}
}

func TestStore_SetResumeOffsetMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.SetResumeOffset("https://portal.example/lectures/d-infk/2022/spring/252-0027-00L", 10)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetResumeOffset() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)

	a := testCourse()
	b := testCourse()
	b.URL = "https://portal.example/lectures/d-math/2021/autumn/401-1151-00L"
	b.Name = "Linear Algebra"

	if err := store.Insert(b); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Insert(a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	courses := store.List()
	if len(courses) != 2 {
		t.Fatalf("List() count = %d, want 2", len(courses))
	}
	// Ordered by URL.
	if courses[0].URL > courses[1].URL {
		t.Error("List() not ordered by URL")
	}
}

func TestCourse_FirstEpisode(t *testing.T) {
	course := testCourse()
	first := course.FirstEpisode()
	if first == nil || first.ID != "ep1" {
		t.Fatalf("FirstEpisode() = %+v, want ep1", first)
	}

	empty := &Course{}
	if empty.FirstEpisode() != nil {
		t.Error("FirstEpisode() on empty course should be nil")
	}
}

func TestCourse_TotalDurationSeconds(t *testing.T) {
	course := testCourse()
	if got := course.TotalDurationSeconds(); got != 1500 {
		t.Errorf("TotalDurationSeconds() = %v, want 1500", got)
	}
}
