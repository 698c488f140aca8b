package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/services"
)

func newGapsCmd(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "gaps <profile.json>",
		Short: "Compute employment gaps from a work history JSON file",
		Long:  `Reads {"work_history": [...], "education": [...]} and prints the employment gap summary.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var req models.EmploymentGapsRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			return writeJSON(cmd.OutOrStdout(), services.ComputeEmploymentGaps(req.WorkHistory, req.Education))
		},
	}
}
