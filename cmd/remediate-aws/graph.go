package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	remediate "github.com/cloudassembly/remediate-aws-go"
	"github.com/cloudassembly/remediate-aws-go/internal/graph"
	"github.com/cloudassembly/remediate-aws-go/internal/template"
)

func newGraphCmd() *cobra.Command {
	var (
		outputFormat     string
		clusterByService bool
	)

	cmd := &cobra.Command{
		Use:   "graph <config>",
		Short: "Generate DOT graph of deployment dependencies",
		Long: `Generate a DOT or Mermaid format graph of the deployment's resources.

The output can be rendered with Graphviz:
    remediate-aws graph deployment.yaml | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    remediate-aws graph deployment.yaml -f mermaid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(args[0], outputFormat, clusterByService)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&clusterByService, "cluster", "c", false, "Cluster resources by AWS service")

	return cmd
}

func runGraph(configPath, format string, cluster bool) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	tmpl, _, err := renderTemplate(cfg)
	if err != nil {
		return fmt.Errorf("graph failed: %w", err)
	}

	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	gen := &graph.Generator{
		Format:           graphFormat,
		ClusterByService: cluster,
	}

	return gen.Generate(nodesFromTemplate(tmpl), os.Stdout)
}

// nodesFromTemplate projects a rendered template onto graph nodes.
func nodesFromTemplate(tmpl *remediate.Template) map[string]template.Node {
	nodes := make(map[string]template.Node, len(tmpl.Resources))
	for name, def := range tmpl.Resources {
		nodes[name] = template.Node{
			Type:      def.Type,
			DependsOn: def.DependsOn,
		}
	}
	return nodes
}
