package graph

import (
	"strings"
	"testing"

	"github.com/cloudassembly/remediate-aws-go/internal/template"
)

func deploymentNodes() map[string]template.Node {
	return map[string]template.Node{
		"RemediationFunction": {
			Type: "AWS::Serverless::Function",
		},
		"RemediationFunctionLogGroup": {
			Type:      "AWS::Logs::LogGroup",
			DependsOn: []string{"RemediationFunction"},
		},
	}
}

func TestGenerator_Generate_SimpleGraph(t *testing.T) {
	gen := &Generator{}
	var sb strings.Builder
	if err := gen.Generate(deploymentNodes(), &sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if !strings.Contains(output, "digraph") {
		t.Error("expected digraph declaration")
	}
	if !strings.Contains(output, "RemediationFunction") {
		t.Error("expected function node")
	}
	if !strings.Contains(output, "RemediationFunctionLogGroup") {
		t.Error("expected log group node")
	}
	if !strings.Contains(output, "AWS::Logs::LogGroup") {
		t.Error("expected resource type in node label")
	}
	if !strings.Contains(output, "->") {
		t.Error("expected dependency edge")
	}
}

func TestGenerator_Generate_Mermaid(t *testing.T) {
	gen := &Generator{Format: FormatMermaid}
	var sb strings.Builder
	if err := gen.Generate(deploymentNodes(), &sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if strings.Contains(output, "digraph") {
		t.Error("mermaid output must not contain DOT syntax")
	}
	if !strings.Contains(output, "RemediationFunction") {
		t.Error("expected function node")
	}
}

func TestGenerator_Generate_SkipsUndeclaredDeps(t *testing.T) {
	nodes := map[string]template.Node{
		"RemediationFunction": {
			Type:      "AWS::Serverless::Function",
			DependsOn: []string{"SomethingElse"},
		},
	}

	gen := &Generator{}
	out, err := gen.GenerateString(nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "SomethingElse") {
		t.Error("undeclared dependency must not appear in graph")
	}
}

func TestGenerator_Generate_Clustered(t *testing.T) {
	nodes := deploymentNodes()
	nodes["AuditLogGroup"] = template.Node{Type: "AWS::Logs::LogGroup"}

	gen := &Generator{ClusterByService: true}
	out, err := gen.GenerateString(nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The library assigns its own subgraph ids; only the label is ours.
	if !strings.Contains(out, "cluster_") {
		t.Error("expected a service cluster")
	}
	if !strings.Contains(out, `label="Logs"`) {
		t.Error("expected Logs cluster label")
	}
	if !strings.Contains(out, "AuditLogGroup") {
		t.Error("expected clustered node")
	}
}

func TestExtractService(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AWS::Logs::LogGroup", "Logs"},
		{"AWS::Serverless::Function", "Serverless"},
		{"Custom", "Other"},
	}
	for _, tt := range tests {
		if got := extractService(tt.in); got != tt.want {
			t.Errorf("extractService(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
