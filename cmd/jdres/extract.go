package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-extractor/internal/models"
)

func newExtractCmd(c *cli) *cobra.Command {
	var profile bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text from a PDF, DOCX or TXT file",
		Long:  "Extracts plain text from a single file. With --profile the text is parsed into skills, work history, education and employment gaps.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.svc.Text.ExtractFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", args[0], err)
			}

			if !profile {
				return writeJSON(cmd.OutOrStdout(), models.ExtractTextResponse{
					Filename:   filepath.Base(args[0]),
					Text:       text,
					TextLength: len(text),
				})
			}

			p, err := c.svc.Profiles.ExtractProfile(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("failed to extract profile: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().BoolVarP(&profile, "profile", "p", false, "Parse the text into a resume profile")

	return cmd
}
