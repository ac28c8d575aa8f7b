package audio

import (
	"reflect"
	"testing"

	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/tags"
)

func TestDuplicateHalf(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"Queen / Queen", "Queen", true},
		{"A / A", "A", true},
		{"Motörhead / Motörhead", "Motörhead", true},
		{"AC/DC / AC/DC", "AC/DC", true},
		{"Queen / Bohemian", "", false},
		{"", "", false},
		{" / ", "", false},
		{"A / A / A", "", false},
		{"Queen/Queen", "", false},
		{"Queen  /  Queen", "", false},
		{"Queen / queen", "", false},
		{"Queen", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := DuplicateHalf(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DuplicateHalf(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalize_AliasEquivalence(t *testing.T) {
	frame := tags.NewMemoryContainer("/m/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "X / X"})
	mapping := tags.NewMemoryContainer("/m/a.ogg", tags.SchemeMapping, map[string]string{"artist": "X / X"})

	frameFixes := Normalize(frame, tags.DefaultFields())
	mappingFixes := Normalize(mapping, tags.DefaultFields())

	if len(frameFixes) != 1 || len(mappingFixes) != 1 {
		t.Fatalf("fix counts = %d/%d, want 1/1", len(frameFixes), len(mappingFixes))
	}
	if frameFixes[0].Field != "artist" || mappingFixes[0].Field != "artist" {
		t.Errorf("fields = %q/%q, want artist/artist", frameFixes[0].Field, mappingFixes[0].Field)
	}
	if frameFixes[0].New != mappingFixes[0].New || frameFixes[0].New != "X" {
		t.Errorf("new values = %q/%q, want X/X", frameFixes[0].New, mappingFixes[0].New)
	}
	if frameFixes[0].Key != "TPE1" || mappingFixes[0].Key != "artist" {
		t.Errorf("keys = %q/%q, want TPE1/artist", frameFixes[0].Key, mappingFixes[0].Key)
	}
}

func TestNormalize_OrderAndSkips(t *testing.T) {
	c := tags.NewMemoryContainer("/m/a.ogg", tags.SchemeMapping, map[string]string{
		"title":  "Mustapha / Mustapha",
		"artist": "Queen / Queen",
		"album":  "Jazz",
		"genre":  "Rock / Rock",
	})

	got := Normalize(c, tags.DefaultFields())
	want := []model.FieldFix{
		{Field: "artist", Key: "artist", Old: "Queen / Queen", New: "Queen"},
		{Field: "title", Key: "title", Old: "Mustapha / Mustapha", New: "Mustapha"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalize_NothingToFix(t *testing.T) {
	c := tags.NewMemoryContainer("/m/a.mp3", tags.SchemeFrame, map[string]string{
		"TPE1": "Queen",
		"TIT2": "",
	})
	if fixes := Normalize(c, tags.DefaultFields()); len(fixes) != 0 {
		t.Errorf("Normalize() = %+v, want no fixes", fixes)
	}
}

func TestApply(t *testing.T) {
	c := tags.NewMemoryContainer("/m/a.mp3", tags.SchemeFrame, map[string]string{"TALB": "Jazz / Jazz"})
	fixes := Normalize(c, tags.DefaultFields())

	if err := Apply(c, fixes); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if v, _ := c.Get("TALB"); v != "Jazz" {
		t.Errorf("TALB = %q, want Jazz", v)
	}
}
