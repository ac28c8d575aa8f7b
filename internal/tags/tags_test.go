package tags

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bogem/id3v2"
)

func TestField_Aliases(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  []string
		label string
	}{
		{"both", Field{Name: "artist", Frame: "TPE1"}, []string{"artist", "TPE1"}, "artist"},
		{"name only", Field{Name: "album"}, []string{"album"}, "album"},
		{"frame only", Field{Frame: "TIT2"}, []string{"TIT2"}, "TIT2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.Aliases(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Aliases() = %v, want %v", got, tt.want)
			}
			if got := tt.field.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestMemoryContainer(t *testing.T) {
	src := map[string]string{"TPE1": "Queen / Queen"}
	c := NewMemoryContainer("/music/a.mp3", SchemeFrame, src)

	if _, ok := c.Get("artist"); ok {
		t.Error("Get(artist) should be absent in a frame-only container")
	}
	if err := c.Set("TPE1", "Queen"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, _ := c.Get("TPE1"); v != "Queen" {
		t.Errorf("Get(TPE1) = %q, want Queen", v)
	}
	if src["TPE1"] != "Queen / Queen" {
		t.Error("NewMemoryContainer should copy the source map")
	}
	if got := c.Changed(); !reflect.DeepEqual(got, map[string]string{"TPE1": "Queen"}) {
		t.Errorf("Changed() = %v", got)
	}

	_ = c.Close()
	if !c.Closed() {
		t.Error("Closed() = false after Close()")
	}
}

func TestMappingContainer_GetSet(t *testing.T) {
	c := newMappingContainer("/music/a.ogg", map[string][]string{
		"ARTIST": {"Queen / Queen", "Freddie Mercury"},
		"ALBUM":  {"Jazz"},
	})

	if c.Scheme() != SchemeMapping {
		t.Errorf("Scheme() = %q, want %q", c.Scheme(), SchemeMapping)
	}
	if v, ok := c.Get("artist"); !ok || v != "Queen / Queen" {
		t.Errorf("Get(artist) = (%q, %v), want first value", v, ok)
	}
	if _, ok := c.Get("TPE1"); ok {
		t.Error("Get(TPE1) should be absent in a mapping container")
	}
	if _, ok := c.Get("title"); ok {
		t.Error("Get(title) should be absent")
	}

	if err := c.Set("artist", "Queen"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	want := []string{"Queen", "Freddie Mercury"}
	if got := c.props["ARTIST"]; !reflect.DeepEqual(got, want) {
		t.Errorf("props[ARTIST] = %v, want %v", got, want)
	}
	if got := c.changed; !reflect.DeepEqual(got, map[string][]string{"ARTIST": want}) {
		t.Errorf("changed = %v, want only ARTIST", got)
	}
}

func TestIsFrameID(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"TPE1", true},
		{"TALB", true},
		{"artist", false},
		{"tpe1", false},
		{"TP1", false},
		{"TPE12", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isFrameID(tt.key); got != tt.want {
				t.Errorf("isFrameID(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestCanonicalOrdinal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3/12", "3"},
		{"03 / 12", "03"},
		{"7", "7"},
		{" 2 ", "2"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CanonicalOrdinal(tt.input); got != tt.want {
				t.Errorf("CanonicalOrdinal(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

type stubCodec struct {
	decoded []string
}

func (s *stubCodec) Decode(path string) (Container, error) {
	s.decoded = append(s.decoded, path)
	return NewMemoryContainer(path, SchemeMapping, nil), nil
}

func (s *stubCodec) Persist(Container) error { return nil }

func TestRegistry_Routing(t *testing.T) {
	stub := &stubCodec{}
	r := NewRegistry()
	r.Register(".OGG", stub)

	if _, err := r.Decode("/music/Song.Ogg"); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(stub.decoded) != 1 {
		t.Fatalf("stub decoded %d files, want 1", len(stub.decoded))
	}

	_, err := r.Decode("/music/cover.jpg")
	if !errors.Is(err, ErrDecode) || !errors.Is(err, ErrUnsupported) {
		t.Errorf("Decode(jpg) error = %v, want ErrDecode and ErrUnsupported", err)
	}

	err = r.Persist(NewMemoryContainer("/music/notes.txt", SchemeMapping, nil))
	if !errors.Is(err, ErrPersist) {
		t.Errorf("Persist(txt) error = %v, want ErrPersist", err)
	}
}

func TestDefaultRegistry_Extensions(t *testing.T) {
	want := []string{"m4a", "m4b", "mp3", "ogg", "opus"}
	if got := DefaultRegistry().Extensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}

// writeMP3 writes an ID3v2 tag followed by a few bytes standing in for
// audio frames.
func writeMP3(t *testing.T, path string, frames map[string]string) {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	for id, text := range frames {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if _, err := tag.WriteTo(f); err != nil {
		t.Fatalf("write tag: %v", err)
	}
	if _, err := f.Write([]byte("not really mpeg audio")); err != nil {
		t.Fatalf("write payload: %v", err)
	}
}

func TestID3Codec_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	writeMP3(t, path, map[string]string{
		"TPE1": "Queen / Queen",
		"TIT2": "Mustapha",
	})

	codec := NewID3Codec()
	c, err := codec.Decode(path)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if c.Scheme() != SchemeFrame {
		t.Errorf("Scheme() = %q, want %q", c.Scheme(), SchemeFrame)
	}
	if _, ok := c.Get("artist"); ok {
		t.Error("Get(artist) should be absent in an ID3v2 container")
	}
	if v, ok := c.Get("TPE1"); !ok || v != "Queen / Queen" {
		t.Fatalf("Get(TPE1) = (%q, %v)", v, ok)
	}
	if err := c.Set("artist", "Queen"); err == nil {
		t.Error("Set(artist) should fail on an ID3v2 container")
	}
	if err := c.Set("TPE1", "Queen"); err != nil {
		t.Fatalf("Set(TPE1) error: %v", err)
	}
	if err := codec.Persist(c); err != nil {
		t.Fatalf("Persist() error: %v", err)
	}
	_ = c.Close()

	reread, err := codec.Decode(path)
	if err != nil {
		t.Fatalf("Decode() after persist error: %v", err)
	}
	defer reread.Close()

	if v, _ := reread.Get("TPE1"); v != "Queen" {
		t.Errorf("TPE1 after persist = %q, want Queen", v)
	}
	if v, _ := reread.Get("TIT2"); v != "Mustapha" {
		t.Errorf("TIT2 after persist = %q, want untouched Mustapha", v)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "not really mpeg audio"; string(data[len(data)-len(want):]) != want {
		t.Error("audio payload was not preserved after persist")
	}
}

func TestID3Codec_PersistForeignContainer(t *testing.T) {
	err := NewID3Codec().Persist(NewMemoryContainer("/music/a.mp3", SchemeFrame, nil))
	if !errors.Is(err, ErrPersist) {
		t.Errorf("Persist() error = %v, want ErrPersist", err)
	}
}

func TestReadSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "A Night at the Opera")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "song.mp3")
	writeMP3(t, path, map[string]string{
		"TPE1": "Queen",
		"TIT2": "Bohemian Rhapsody",
		"TRCK": "11/12",
		"TPOS": "1 / 1",
	})

	s, err := ReadSummary(path)
	if err != nil {
		t.Fatalf("ReadSummary() error: %v", err)
	}

	if s.Artist != "Queen" || s.Title != "Bohemian Rhapsody" {
		t.Errorf("artist/title = %q/%q", s.Artist, s.Title)
	}
	if s.Album != "A Night at the Opera" {
		t.Errorf("Album = %q, want directory name fallback", s.Album)
	}
	if s.Track != "11" {
		t.Errorf("Track = %q, want 11", s.Track)
	}
	if s.Disc != "1" {
		t.Errorf("Disc = %q, want 1", s.Disc)
	}
}

func TestReadSummary_NotAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadSummary(path); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadSummary() error = %v, want ErrDecode", err)
	}
}
