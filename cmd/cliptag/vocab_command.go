package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cliptag/internal/vocab"
)

func newVocabCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "vocab",
		Short:       "Print the tag and key vocabularies",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := vocab.Default()
			if jsonOutput {
				return writeJSON(cmd, map[string][]string{
					"tags": v.Tags(),
					"keys": v.Keys(),
				})
			}

			out := cmd.OutOrStdout()
			tagRows := make([][]string, 0, v.TagCount())
			for i, tag := range v.Tags() {
				tagRows = append(tagRows, []string{fmt.Sprintf("%d", i+1), tag})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Tag"}, tagRows, []columnAlignment{alignRight, alignLeft}))

			keyRows := make([][]string, 0, len(vocab.Roots))
			for _, root := range vocab.Roots {
				keyRows = append(keyRows, []string{root, root + " major", root + " minor"})
			}
			fmt.Fprintln(out, renderTable([]string{"Root", "Major", "Minor"}, keyRows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the vocabularies as JSON")
	return cmd
}
