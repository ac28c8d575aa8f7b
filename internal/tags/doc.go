// Package tags adapts audio metadata libraries to the small Codec and
// Container interfaces used by the tagger.
//
// # Containers
//
// A Container is the decoded tag block of one file. Keys are resolved in
// the container's own naming scheme:
//
//   - frame containers (ID3v2, used for MP3) answer frame IDs like "TPE1"
//   - mapping containers (Vorbis comments, MP4 atoms) answer canonical
//     names like "artist", case-insensitively
//
// Callers that do not care which scheme a file uses look a logical Field
// up through all of its aliases:
//
//	for _, key := range tags.Field{Name: "artist", Frame: "TPE1"}.Aliases() {
//	    if v, ok := c.Get(key); ok {
//	        fmt.Println(key, v)
//	    }
//	}
//
// # Codecs
//
// A Codec decodes a file into a Container and persists a modified
// Container back to its file. Registry routes by file extension:
//
//	reg := tags.DefaultRegistry()
//	c, err := reg.Decode("/music/song.mp3")
//	if err != nil {
//	    // errors.Is(err, tags.ErrDecode)
//	}
//	defer c.Close()
//
//	_ = c.Set("TPE1", "Queen")
//	err = reg.Persist(c)
//
// # Summaries
//
// ReadSummary extracts a read-only canonical view (artist, album, title,
// track and disc numbers) of any file github.com/dhowden/tag understands.
package tags
