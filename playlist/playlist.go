// Package playlist renders a synchronized course into a plain-text
// playable list, filtered to one target vertical resolution and carrying
// the course's resume marker.
package playlist

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"lectsync/catalog"
)

// Entry is one playable item: duration, label, URL.
type Entry struct {
	DurationSeconds float64
	Title           string
	URL             string
}

// Playlist is an ordered playable list for one course.
type Playlist struct {
	Title string
	// StartSeconds is the resume marker, absolute seconds into the
	// concatenated course timeline. Zero means play from the start.
	StartSeconds int
	Entries      []Entry
}

// Build filters the course's episodes to presentations whose height
// exactly equals the target resolution, in chronological episode order.
// There is no fallback to a nearest resolution; duplicate presentations at
// the same height are all emitted. A course with no matching presentation
// yields a well-formed playlist with zero entries.
func Build(course *catalog.Course, height int) *Playlist {
	p := &Playlist{
		Title:        course.Name,
		StartSeconds: course.LastPlayedSeconds,
	}
	for _, ep := range course.Episodes {
		for _, pres := range ep.Presentations {
			if pres.Height != height {
				continue
			}
			label := ep.Title
			if label == "" {
				label = ep.CreatedAt.Format("2006-01-02")
			}
			p.Entries = append(p.Entries, Entry{
				DurationSeconds: ep.DurationSeconds,
				Title:           label,
				URL:             pres.URL,
			})
		}
	}
	return p
}

// Render produces the playlist file content: the M3U header, the playlist
// title, an optional start-offset directive for the resume marker, and
// one duration/label line plus URL per entry.
func (p *Playlist) Render() []byte {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	if p.Title != "" {
		fmt.Fprintf(&b, "#PLAYLIST:%s\n", p.Title)
	}
	if p.StartSeconds > 0 {
		fmt.Fprintf(&b, "#EXTVLCOPT:start-time=%d\n", p.StartSeconds)
	}
	for _, e := range p.Entries {
		fmt.Fprintf(&b, "#EXTINF:%d,%s\n%s\n", int(e.DurationSeconds), e.Title, e.URL)
	}
	return []byte(b.String())
}

// FileName derives the per-course playlist file name from the trailing
// lecture identifier of the registration URL, e.g. "252-0027-00L_1080p.m3u".
func FileName(course *catalog.Course, height int) string {
	return fmt.Sprintf("%s_%dp.m3u", path.Base(course.URL), height)
}

// Write renders the course's playlist into dir and returns the file path.
func Write(dir string, course *catalog.Course, height int) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create playlist directory: %w", err)
	}

	target := filepath.Join(dir, FileName(course, height))
	if err := os.WriteFile(target, Build(course, height).Render(), 0644); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return target, nil
}
