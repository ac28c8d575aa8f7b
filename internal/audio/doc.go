// Package audio inspects and repairs the metadata of audio files.
//
// # Duplicated Values
//
// Some tagging tools write a value twice, joined by " / ", e.g.
// "Queen / Queen". DuplicateHalf detects that exact shape and Normalize
// applies it to every configured field of a tag container:
//
//	fixes := audio.Normalize(container, tags.DefaultFields())
//	for _, fix := range fixes {
//	    fmt.Printf("%s: %q -> %q\n", fix.Key, fix.Old, fix.New)
//	}
//
// # Tagger
//
// The Tagger is the consumer side of the scan pipeline. It takes paths off
// the work queue, decodes them, normalizes the configured fields and, unless
// running as a dry run, writes the fixes back:
//
//	tagger := audio.NewTagger(q, tags.DefaultRegistry(), audio.DefaultTagConfig(), logger)
//	err := tagger.ProcessFiles(ctx, report)
//
// ProcessFiles returns once the queue has been shut down and drained.
//
// # Playlists
//
// PlaylistCreator turns the files a run fixed (or would fix) into an M3U
// or PLS playlist, so they can be reviewed in a player:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist(report.Affected())
package audio
