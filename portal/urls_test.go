package portal

import (
	"errors"
	"testing"
)

func TestCourseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "canonical url",
			input: "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L",
			want:  "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L",
		},
		{
			name:  "http scheme",
			input: "http://portal.example/lectures/d-math/2021/autumn/401-1151-00L",
			want:  "http://portal.example/lectures/d-math/2021/autumn/401-1151-00L",
		},
		{
			name:  "trailing page stripped",
			input: "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L.html",
			want:  "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L",
		},
		{
			name:  "six letter department",
			input: "https://portal.example/lectures/d-matlab/2022/spring/252-0027-00L",
			want:  "https://portal.example/lectures/d-matlab/2022/spring/252-0027-00L",
		},
		{name: "missing scheme", input: "portal.example/lectures/d-infk/2022/spring/252-0027-00L", wantErr: true},
		{name: "wrong season", input: "https://portal.example/lectures/d-infk/2022/winter/252-0027-00L", wantErr: true},
		{name: "department too short", input: "https://portal.example/lectures/d-in/2022/spring/252-0027-00L", wantErr: true},
		{name: "missing lecture suffix", input: "https://portal.example/lectures/d-infk/2022/spring/252-0027-00", wantErr: true},
		{name: "not a lectures path", input: "https://portal.example/courses/d-infk/2022/spring/252-0027-00L", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CourseURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("CourseURL(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CourseURL(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("CourseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLectureNumber(t *testing.T) {
	base := "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L"
	if got := LectureNumber(base); got != "252-0027-00L" {
		t.Errorf("LectureNumber() = %q, want %q", got, "252-0027-00L")
	}
}

func TestDerivedEndpoints(t *testing.T) {
	base := "https://portal.example/lectures/d-infk/2022/spring/252-0027-00L"

	if got := seriesMetadataURL(base); got != base+".series-metadata.json" {
		t.Errorf("seriesMetadataURL() = %q", got)
	}
	if got := episodeMetadataURL(base, "abc123"); got != base+"/abc123.series-metadata.json" {
		t.Errorf("episodeMetadataURL() = %q", got)
	}
	if got := seriesLoginURL(base); got != base+".series-login.json" {
		t.Errorf("seriesLoginURL() = %q", got)
	}
	if got := securityCheckURL(base); got != base+"/j_security_check" {
		t.Errorf("securityCheckURL() = %q", got)
	}
	if got := refererURL(base); got != base+".html" {
		t.Errorf("refererURL() = %q", got)
	}
}
