package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudassembly/remediate-aws-go/internal/differ"
)

func newDiffCmd() *cobra.Command {
	var ignoreMetadata bool

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two rendered templates",
		Long: `Diff compares two rendered template files and reports resource
additions, removals, and modifications.

Examples:
    remediate-aws diff deployed.json template.json
    remediate-aws diff deployed.yaml template.yaml --ignore-metadata`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], ignoreMetadata)
		},
	}

	cmd.Flags().BoolVar(&ignoreMetadata, "ignore-metadata", false, "Ignore resource metadata, including suppressions")

	return cmd
}

func runDiff(before, after string, ignoreMetadata bool) error {
	result, err := differ.CompareFiles(before, after, differ.Options{
		IgnoreMetadata: ignoreMetadata,
	})
	if err != nil {
		return err
	}

	if result.Summary.Total == 0 {
		fmt.Println("No differences.")
		return nil
	}

	for _, entry := range result.Diff.Added {
		fmt.Printf("+ %s (%s)\n", entry.Resource, entry.Type)
	}
	for _, entry := range result.Diff.Removed {
		fmt.Printf("- %s (%s)\n", entry.Resource, entry.Type)
	}
	for _, entry := range result.Diff.Modified {
		fmt.Printf("~ %s (%s)\n", entry.Resource, entry.Type)
		for _, change := range entry.Changes {
			fmt.Printf("    %s\n", change)
		}
	}

	fmt.Printf("\n%d added, %d removed, %d modified\n",
		result.Summary.Added, result.Summary.Removed, result.Summary.Modified)
	return nil
}
