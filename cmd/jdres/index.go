package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-extractor/internal/services"
)

func newIndexCmd(c *cli) *cobra.Command {
	var batchID string

	cmd := &cobra.Command{
		Use:   "index <folder>",
		Short: "Embed the resumes in a folder and store them in Qdrant",
		Long:  "Stores the resumes under a batch ID that `jdres rank --batch` can search later.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.svc.Ranking.SemanticAvailable(cmd.Context()) {
				return fmt.Errorf("%w: set QDRANT_ENABLED and an LLM API key", services.ErrSemanticUnavailable)
			}

			resumes, err := c.svc.Text.ExtractFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if batchID == "" {
				batchID = uuid.NewString()
			}

			count, err := c.svc.Ranking.IndexResumes(cmd.Context(), batchID, resumes)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"batch_id": batchID,
				"resumes":  len(resumes),
				"chunks":   count,
			})
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "Batch ID to store the chunks under (default: random)")

	return cmd
}
