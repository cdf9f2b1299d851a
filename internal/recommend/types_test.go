// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"reflect"
	"testing"
)

func TestParseMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    MediaType
		wantErr bool
	}{
		{"movie", MediaMovie, false},
		{"Show", MediaShow, false},
		{" tv ", MediaShow, false},
		{"all", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMediaType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMediaType(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestMediaTypeFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    MediaTypeFilter
		targets []MediaType
		wantErr bool
	}{
		{"", FilterAll, []MediaType{MediaMovie, MediaShow}, false},
		{"ALL", FilterAll, []MediaType{MediaMovie, MediaShow}, false},
		{"movie", FilterMovie, []MediaType{MediaMovie}, false},
		{"tv", FilterShow, []MediaType{MediaShow}, false},
		{"books", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMediaTypeFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMediaTypeFilter(%q) error = %v", tt.in, err)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want || !got.Valid() {
				t.Errorf("ParseMediaTypeFilter(%q) = %q", tt.in, got)
			}
			if !reflect.DeepEqual(got.Targets(), tt.targets) {
				t.Errorf("Targets() = %v, want %v", got.Targets(), tt.targets)
			}
		})
	}

	if FilterMovie.Allows(MediaShow) || !FilterMovie.Allows(MediaMovie) || !FilterAll.Allows(MediaShow) {
		t.Error("Allows() mismatch")
	}
}

func TestTitleKeyString(t *testing.T) {
	t.Parallel()

	if got := (TitleKey{TitleID: 603, MediaType: MediaMovie}).String(); got != "movie/603" {
		t.Errorf("String() = %q", got)
	}
}
