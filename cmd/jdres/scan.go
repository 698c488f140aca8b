package main

import "github.com/spf13/cobra"

func newScanCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <folder>",
		Short: "List and extract every supported file in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := c.svc.Text.ScanFolder(args[0])
			if err != nil {
				return err
			}

			texts, err := c.svc.Text.ExtractFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			lengths := make(map[string]int, len(texts))
			for name, text := range texts {
				lengths[name] = len(text)
			}

			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"folder":        args[0],
				"files":         files,
				"total_files":   len(files),
				"success_count": len(texts),
				"text_lengths":  lengths,
			})
		},
	}
}
