package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-extractor/internal/services"
)

func newRankCmd(c *cli) *cobra.Command {
	var (
		jdPath  string
		batchID string
		topK    int
	)

	cmd := &cobra.Command{
		Use:   "rank [folder]",
		Short: "Rank resumes against a job description",
		Long: "Ranks the resumes in a folder against a job description. With --batch the resumes " +
			"stored by `jdres index` under that batch are searched instead of a folder.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (batchID == "") {
				return errors.New("pass either a resume folder or --batch")
			}

			jdText, err := c.svc.Text.ExtractFile(jdPath)
			if err != nil {
				return fmt.Errorf("failed to read job description: %w", err)
			}

			if batchID != "" {
				result, err := c.svc.Ranking.SearchIndexed(cmd.Context(), batchID, jdText, topK)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			}

			resumes, err := c.svc.Text.ExtractFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(resumes) == 0 {
				return fmt.Errorf("no readable resumes in %s", args[0])
			}

			result, err := c.svc.Ranking.RankResumes(cmd.Context(), jdText, resumes, topK)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&jdPath, "jd", "", "Path to the job description file (required)")
	cmd.Flags().StringVar(&batchID, "batch", "", "Search the resumes indexed under this batch ID")
	cmd.Flags().IntVarP(&topK, "top-k", "k", services.DefaultTopK, "Number of resumes to return")
	if err := cmd.MarkFlagRequired("jd"); err != nil {
		panic(fmt.Sprintf("failed to mark jd flag as required: %v", err))
	}

	return cmd
}
