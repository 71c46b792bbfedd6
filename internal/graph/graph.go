// Package graph renders dependency graphs of declared resources in DOT and
// Mermaid formats.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/cloudassembly/remediate-aws-go/internal/template"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from a builder's declared resources.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service.
	ClusterByService bool
}

// Generate renders the dependency graph for nodes and writes it to w.
func (g *Generator) Generate(nodes map[string]template.Node, w io.Writer) error {
	graph := g.buildGraph(nodes)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(nodes map[string]template.Node) (string, error) {
	var sb strings.Builder
	if err := g.Generate(nodes, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(nodes map[string]template.Node) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByService {
		g.addClusteredNodes(graph, nodes)
	} else {
		g.addNodes(graph, nodes)
	}

	for name, node := range nodes {
		for _, dep := range node.DependsOn {
			if _, ok := nodes[dep]; !ok {
				continue
			}
			graph.Edge(graph.Node(name), graph.Node(dep))
		}
	}

	return graph
}

// addNodes adds resource nodes without clustering.
func (g *Generator) addNodes(graph *dot.Graph, nodes map[string]template.Node) {
	for name, node := range nodes {
		n := graph.Node(name)
		n.Label(name + "\\n[" + node.Type + "]")
	}
}

// addClusteredNodes adds resource nodes grouped by AWS service.
func (g *Generator) addClusteredNodes(graph *dot.Graph, nodes map[string]template.Node) {
	serviceNodes := make(map[string][]string)
	for name, node := range nodes {
		service := extractService(node.Type)
		serviceNodes[service] = append(serviceNodes[service], name)
	}

	for service, names := range serviceNodes {
		if len(names) > 1 {
			cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
			cluster.Attr("label", service)
			cluster.Attr("style", "rounded")
			cluster.Attr("bgcolor", "lightyellow")

			for _, name := range names {
				n := cluster.Node(name)
				n.Label(name + "\\n[" + nodes[name].Type + "]")
			}
		} else {
			for _, name := range names {
				n := graph.Node(name)
				n.Label(name + "\\n[" + nodes[name].Type + "]")
			}
		}
	}
}

// extractService extracts the AWS service name from a resource type.
// e.g., "AWS::Logs::LogGroup" -> "Logs"
func extractService(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) >= 2 {
		return parts[1]
	}
	return "Other"
}
