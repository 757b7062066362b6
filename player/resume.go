package player

import (
	"regexp"
	"strconv"

	"lectsync/catalog"
)

var (
	// nowPlayingRe matches the player's "Playing:" lines on stdout.
	nowPlayingRe = regexp.MustCompile(`(?m)^Playing: (\S+)`)
	// clockRe matches the elapsed-time triple on the player's status
	// lines. The elapsed time precedes the slash-separated item total
	// ("AV: 00:05:30 / 00:15:00"), so the triple must be anchored to the
	// separator to avoid reading the total instead.
	clockRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}) /`)
)

// ResumeOffset reconciles the player's captured output against the
// course's chronological timeline and returns the new absolute resume
// offset in whole seconds.
//
// The last "Playing:" URL on stdout names the episode active when
// playback stopped; the durations of all strictly earlier episodes plus
// the last elapsed HH:MM:SS triple on stderr give the offset. ok is false
// when either marker is missing or the URL matches no stored presentation
// (playback aborted before any progress) — an expected outcome, not an
// error.
func ResumeOffset(course *catalog.Course, stdout, stderr string) (offset int, ok bool) {
	playing := nowPlayingRe.FindAllStringSubmatch(stdout, -1)
	if len(playing) == 0 {
		return 0, false
	}
	current := playing[len(playing)-1][1]

	var accumulated float64
	found := false
	for _, ep := range course.Episodes {
		if episodeHasURL(ep, current) {
			found = true
			break
		}
		accumulated += ep.DurationSeconds
	}
	if !found {
		return 0, false
	}

	clocks := clockRe.FindAllStringSubmatch(stderr, -1)
	if len(clocks) == 0 {
		return 0, false
	}
	last := clocks[len(clocks)-1]
	hours, _ := strconv.Atoi(last[1])
	minutes, _ := strconv.Atoi(last[2])
	seconds, _ := strconv.Atoi(last[3])
	elapsed := hours*3600 + minutes*60 + seconds

	return int(accumulated) + elapsed, true
}

func episodeHasURL(ep catalog.Episode, url string) bool {
	for _, pres := range ep.Presentations {
		if pres.URL == url {
			return true
		}
	}
	return false
}
