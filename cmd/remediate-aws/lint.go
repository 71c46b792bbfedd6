package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudassembly/remediate-aws-go/internal/validation"
)

func newLintCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint <config>",
		Short: "Validate the rendered deployment template",
		Long: `Lint builds the deployment and runs cfn-lint on the rendered template.

Exit codes:
    0: no errors
    2: lint errors found

Examples:
    remediate-aws lint deployment.yaml
    remediate-aws lint deployment.yaml --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLintCmd(args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}

func runLintCmd(configPath string, strict bool) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	tmpl, _, err := renderTemplate(cfg)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	result, err := validation.ValidateTemplate(tmpl)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, i := range result.Informational {
		fmt.Printf("info: %s\n", i)
	}

	failed := !result.Passed || (strict && len(result.Warnings) > 0)
	if failed {
		os.Exit(2)
	}

	fmt.Println("No issues found.")
	return nil
}
