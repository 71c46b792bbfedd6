package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	remediate "github.com/cloudassembly/remediate-aws-go"
	"github.com/cloudassembly/remediate-aws-go/internal/template"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build <config>",
		Short: "Stage policies and render the deployment template",
		Long: `Build stages the configured policy documents into the deployment
package directory and renders the CloudFormation template.

Examples:
    remediate-aws build deployment.yaml
    remediate-aws build deployment.yaml -o template.json
    remediate-aws build deployment.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(configPath, format, outputFile string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	result := buildResult(cfg)
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	return outputTemplate(&result.Template, format, outputFile)
}

// buildResult stages and renders the deployment, collecting errors instead of
// aborting so callers can report them all.
func buildResult(cfg *Config) remediate.BuildResult {
	tmpl, d, err := renderTemplate(cfg)
	if err != nil {
		return remediate.BuildResult{
			Success: false,
			Errors:  []string{err.Error()},
		}
	}

	logrus.WithFields(logrus.Fields{
		"artifact_dir": d.ArtifactDir,
		"policies":     len(d.StagedPolicies),
		"resources":    len(tmpl.Resources),
	}).Debug("deployment built")

	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}

	return remediate.BuildResult{
		Success:   true,
		Template:  *tmpl,
		Resources: names,
	}
}

func outputTemplate(tmpl *remediate.Template, format, outputFile string) error {
	var data []byte
	var err error

	switch format {
	case "json":
		data, err = template.ToJSON(tmpl)
	case "yaml":
		data, err = template.ToYAML(tmpl)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}
