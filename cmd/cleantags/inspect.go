package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/cleantags/internal/audio"
	"github.com/handiism/cleantags/internal/tags"
)

var inspectHeaders = []string{"File", "Format", "Artist", "Album", "Title", "Track", "Disc", "Fixes"}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show the canonical tags of files and the fixes a run would apply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			codec := tags.DefaultRegistry()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var rows [][]string
			failed := 0
			for _, path := range args {
				row, err := inspectRow(codec, settings.Fields, path)
				if err != nil {
					failed++
					fmt.Fprintln(out, renderStatusLine("Inspect", statusError, err.Error(), colorize))
					continue
				}
				rows = append(rows, row)
			}

			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(inspectHeaders, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) could not be inspected", failed, len(args))
			}
			return nil
		},
	}
}

// inspectRow decodes path, computes the fixes a run would make and adds the
// canonical summary when the file's format supports it.
func inspectRow(codec tags.Codec, fields []tags.Field, path string) ([]string, error) {
	c, err := codec.Decode(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var fixes []string
	for _, fix := range audio.Normalize(c, fields) {
		fixes = append(fixes, fmt.Sprintf("%s: %q -> %q", fix.Key, fix.Old, fix.New))
	}
	fixCell := "-"
	if len(fixes) > 0 {
		fixCell = strings.Join(fixes, "\n")
	}

	row := []string{path, string(c.Scheme()), "", "", "", "", "", fixCell}
	if s, err := tags.ReadSummary(path); err == nil {
		row[1] = s.FileType
		if s.Format != "" {
			row[1] = fmt.Sprintf("%s (%s)", s.FileType, s.Format)
		}
		row[2], row[3], row[4], row[5], row[6] = s.Artist, s.Album, s.Title, s.Track, s.Disc
	}
	return row, nil
}
