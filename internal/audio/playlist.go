package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/cleantags/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps a format name ("m3u", "pls") to a
// PlaylistFormat.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	default:
		return FormatM3U, fmt.Errorf("unsupported playlist format %q", name)
	}
}

// Extension returns the file extension for this playlist format.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	default:
		return ".m3u"
	}
}

// PlaylistCreator generates playlists listing the files of a scan.
//
// Entries use absolute paths because affected files are usually spread
// over many directories.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(report.Affected())
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Queen - Mustapha
//	// /music/Queen/Jazz/02 Mustapha.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for the given results, in
// order.
func (p *PlaylistCreator) CreatePlaylist(results []model.FileResult) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(results)
	default:
		return p.createM3U(results)
	}
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Artist - Title
//	/path/to/file.mp3
func (p *PlaylistCreator) createM3U(results []model.FileResult) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, res := range results {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", entryTitle(res)))
		}
		sb.WriteString(res.Path + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=/path/to/file.mp3
//	Title1=Artist - Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(results []model.FileResult) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, res := range results {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, res.Path))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, entryTitle(res)))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(results)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// entryTitle builds "Artist - Title" from the fixed values or the summary,
// falling back to the file name.
func entryTitle(res model.FileResult) string {
	var artist, title string
	if res.Summary != nil {
		artist, title = res.Summary.Artist, res.Summary.Title
	}
	for _, fix := range res.Fixes {
		switch fix.Field {
		case "artist":
			artist = fix.New
		case "title":
			title = fix.New
		}
	}

	switch {
	case artist != "" && title != "":
		return artist + " - " + title
	case title != "":
		return title
	default:
		return strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
	}
}
