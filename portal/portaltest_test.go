package portal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

const coursePath = "/lectures/d-infk/2022/spring/252-0027-00L"

// fakeEpisode is one episode served by the fake portal.
type fakeEpisode struct {
	id            string
	title         string
	createdAt     time.Time
	duration      string
	presentations []map[string]any
}

// fakePortal serves the portal's JSON endpoints for one course and counts
// per-episode fetches so tests can assert the staleness skip.
type fakePortal struct {
	mu         sync.Mutex
	title      string
	protection string
	// episodes in wire order: newest first.
	episodes []fakeEpisode

	episodeFetches int
	loginAttempts  int
	loginForms     []url.Values
	acceptLogin    bool

	srv *httptest.Server
}

func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()
	p := &fakePortal{
		title:       "Test Course",
		protection:  "NONE",
		acceptLogin: true,
	}
	p.srv = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakePortal) baseURL() string {
	return p.srv.URL + coursePath
}

func (p *fakePortal) handle(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case r.URL.Path == coursePath+".series-metadata.json":
		episodes := make([]map[string]any, 0, len(p.episodes))
		for _, ep := range p.episodes {
			episodes = append(episodes, map[string]any{
				"id":        ep.id,
				"title":     ep.title,
				"createdAt": ep.createdAt.Format(time.RFC3339),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"title":      p.title,
			"protection": p.protection,
			"episodes":   episodes,
		})

	case r.URL.Path == coursePath+".series-login.json":
		p.recordLogin(r)
		if p.acceptLogin {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok", Path: "/"})
			w.Write([]byte(`{"success": true}`))
		} else {
			w.Write([]byte(`{"success": false}`))
		}

	case r.URL.Path == coursePath+"/j_security_check":
		p.recordLogin(r)
		if p.acceptLogin {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok", Path: "/"})
			w.Write([]byte("<html>welcome</html>"))
		} else {
			w.Write([]byte("<html>invalid_login</html>"))
		}

	case strings.HasPrefix(r.URL.Path, coursePath+"/") && strings.HasSuffix(r.URL.Path, ".series-metadata.json"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, coursePath+"/"), ".series-metadata.json")
		for _, ep := range p.episodes {
			if ep.id != id {
				continue
			}
			p.episodeFetches++
			json.NewEncoder(w).Encode(map[string]any{
				"selectedEpisode": map[string]any{
					"id":        ep.id,
					"title":     ep.title,
					"createdAt": ep.createdAt.Format(time.RFC3339),
					"duration":  ep.duration,
					"media": map[string]any{
						"presentations": ep.presentations,
					},
				},
			})
			return
		}
		http.NotFound(w, r)

	default:
		http.NotFound(w, r)
	}
}

func (p *fakePortal) recordLogin(r *http.Request) {
	p.loginAttempts++
	r.ParseForm()
	p.loginForms = append(p.loginForms, r.PostForm)
}

// resetCounters clears the fetch and login counters between test phases.
func (p *fakePortal) resetCounters() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.episodeFetches = 0
	p.loginAttempts = 0
	p.loginForms = nil
}

func (p *fakePortal) episodeFetchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.episodeFetches
}

// twoEpisodes returns a standard fixture in wire order (newest first).
func twoEpisodes() []fakeEpisode {
	return []fakeEpisode{
		{
			id:        "ep2",
			title:     "Lecture 2",
			createdAt: time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC),
			duration:  "PT15M",
			presentations: []map[string]any{
				{"height": 1080, "url": "https://cdn.example/ep2_1080.mp4"},
				{"height": 720, "url": "https://cdn.example/ep2_720.mp4"},
			},
		},
		{
			id:        "ep1",
			title:     "Lecture 1",
			createdAt: time.Date(2022, 2, 22, 10, 0, 0, 0, time.UTC),
			duration:  "PT10M",
			presentations: []map[string]any{
				{"height": 1080, "url": "https://cdn.example/ep1_1080.mp4"},
				{"height": 720, "url": "https://cdn.example/ep1_720.mp4"},
			},
		},
	}
}
