package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cliptag/internal/clipstore"
	"cliptag/internal/library"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	clipsCmd := &cobra.Command{
		Use:   "clips",
		Short: "Manage the clip library",
	}

	clipsCmd.AddCommand(newClipsListCommand(ctx))
	clipsCmd.AddCommand(newClipsShowCommand(ctx))
	clipsCmd.AddCommand(newClipsAddCommand(ctx))
	clipsCmd.AddCommand(newClipsRenameCommand(ctx))
	clipsCmd.AddCommand(newClipsTagCommand(ctx))
	clipsCmd.AddCommand(newClipsDeleteCommand(ctx))
	clipsCmd.AddCommand(newClipsImportCommand(ctx))
	clipsCmd.AddCommand(newClipsPruneCommand(ctx))

	return clipsCmd
}

func newClipsListCommand(ctx *commandContext) *cobra.Command {
	var filter clipstore.Filter
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := ctx.openLibrary(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer h.Close()

			clips, err := h.lib.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput {
				if clips == nil {
					clips = []clipstore.Clip{}
				}
				return writeJSON(cmd, clips)
			}
			out := cmd.OutOrStdout()
			if len(clips) == 0 {
				fmt.Fprintln(out, "No clips")
				return nil
			}
			fmt.Fprintln(out, renderClipTable(clips))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Tag, "tag", "", "Only clips carrying this tag")
	cmd.Flags().StringVar(&filter.Key, "key", "", "Only clips in this key (e.g. \"A minor\")")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "Only clips whose name contains this text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit clips as JSON")
	return cmd
}

func newClipsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := ctx.openLibrary(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer h.Close()

			clip, err := h.lib.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, clip)
			}
			renderClipDetail(cmd.OutOrStdout(), clip)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the clip as JSON")
	return cmd
}

func newClipsAddCommand(ctx *commandContext) *cobra.Command {
	var override library.Override

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Analyze local files and add them to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && strings.TrimSpace(override.Name) != "" {
				return fmt.Errorf("--name applies to a single file")
			}
			h, err := ctx.openLibrary(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer h.Close()

			out := cmd.OutOrStdout()
			for _, source := range args {
				clip, err := h.lib.IngestFile(cmd.Context(), source, override)
				if err != nil {
					return fmt.Errorf("add %s: %w", source, err)
				}
				printNotice(out, noticeOK, "Added %s as %q (%s) [%s] %s",
					source, clip.OriginalName, shortID(clip.ID), formatTags(clip.Tags), formatKey(clip.Key))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&override.Name, "name", "", "Display name instead of the suggested one")
	cmd.Flags().StringSliceVar(&override.Tags, "tags", nil, "Tags instead of the detected ones")
	cmd.Flags().StringVar(&override.Key, "key", "", "Key instead of the detected one")
	return cmd
}

func newClipsRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a clip and its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := ctx.openLibrary(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer h.Close()

			clip, err := h.lib.Update(cmd.Context(), args[0], library.Changes{Name: args[1]})
			if err != nil {
				return err
			}
			printNotice(cmd.OutOrStdout(), noticeOK, "Renamed clip %s to %q (file %s)", shortID(clip.ID), clip.OriginalName, clip.Filename)
			return nil
		},
	}
}

func newClipsTagCommand(ctx *commandContext) *cobra.Command {
	var tags []string
	var key string

	cmd := &cobra.Command{
		Use:   "tag <id>",
		Short: "Set a clip's tags and key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := library.Changes{Key: key}
			if cmd.Flags().Changed("tags") {
				changes.Tags = tags
				if changes.Tags == nil {
					changes.Tags = []string{}
				}
			}
			if changes.Tags == nil && strings.TrimSpace(changes.Key) == "" {
				return fmt.Errorf("nothing to change: pass --tags and/or --key")
			}

			h, err := ctx.openLibrary(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer h.Close()

			clip, err := h.lib.Update(cmd.Context(), args[0], changes)
			if err != nil {
				return err
			}
			printNotice(cmd.OutOrStdout(), noticeOK, "Updated clip %s: [%s] %s", shortID(clip.ID), formatTags(clip.Tags), formatKey(clip.Key))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags (empty clears them)")
	cmd.Flags().StringVar(&key, "key", "", "Musical key, e.g. \"F# minor\"")
	return cmd
}

func newClipsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete clips and their files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := ctx.openLibrary(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer h.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				if err := h.lib.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				printNotice(out, noticeOK, "Deleted clip %s", id)
			}
			return nil
		},
	}
}

func newClipsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <clips.json>",
		Short: "Import a JSON clip list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open clip list: %w", err)
			}
			defer f.Close()

			h, err := ctx.openLibrary(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer h.Close()

			report, err := h.lib.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			kind := noticeOK
			if report.Skipped > 0 {
				kind = noticeWarn
			}
			printNotice(cmd.OutOrStdout(), kind, "Imported %d clips (%d skipped)", report.Imported, report.Skipped)
			return nil
		},
	}
}

func newClipsPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove clips whose files are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := ctx.openLibrary(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer h.Close()

			removed, err := h.lib.Prune(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(removed) == 0 {
				printNotice(out, noticeOK, "All clip files present")
				return nil
			}
			for _, clip := range removed {
				fmt.Fprintf(out, "  %s  %s\n", shortID(clip.ID), clip.Path)
			}
			printNotice(out, noticeWarn, "Removed %d clips with missing files", len(removed))
			return nil
		},
	}
}
