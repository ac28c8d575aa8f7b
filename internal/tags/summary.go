package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"github.com/handiism/cleantags/internal/model"
)

// ordinalPattern matches "N/M" style track and disc numbers.
var ordinalPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

var (
	trackKeys = []string{"TRCK", "TRK", "tracknumber", "TRACKNUMBER"}
	discKeys  = []string{"TPOS", "TPA", "discnumber", "DISCNUMBER"}
)

// CanonicalOrdinal reduces a track or disc value to its leading number:
// "3/12" and "3 / 12" become "3". Values without a count are returned
// trimmed, and an empty value becomes "0".
func CanonicalOrdinal(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "0"
	}
	if m := ordinalPattern.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}

// ReadSummary reads the canonical fields of the file at path.
//
// The album falls back to the name of the directory holding the file.
// Track and disc numbers are reduced with CanonicalOrdinal.
func ReadSummary(path string) (model.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Summary{}, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return model.Summary{}, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}

	s := model.Summary{
		Format:   string(m.Format()),
		FileType: string(m.FileType()),
		Artist:   m.Artist(),
		Album:    m.Album(),
		Title:    m.Title(),
	}
	if s.Album == "" {
		s.Album = filepath.Base(filepath.Dir(path))
	}

	raw := m.Raw()
	track, _ := m.Track()
	disc, _ := m.Disc()
	s.Track = ordinalFromRaw(raw, trackKeys, track)
	s.Disc = ordinalFromRaw(raw, discKeys, disc)

	return s, nil
}

func ordinalFromRaw(raw map[string]interface{}, keys []string, parsed int) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return CanonicalOrdinal(v)
		}
	}
	if parsed > 0 {
		return strconv.Itoa(parsed)
	}
	return "0"
}
