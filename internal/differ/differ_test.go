package differ

import (
	"testing"

	remediate "github.com/cloudassembly/remediate-aws-go"
)

func TestCompare(t *testing.T) {
	before := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationFunction": {Type: "AWS::Serverless::Function", Properties: map[string]any{"Timeout": int64(60)}},
			"RemediationRole":     {Type: "AWS::IAM::Role"},
		},
	}

	after := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationFunction":         {Type: "AWS::Serverless::Function", Properties: map[string]any{"Timeout": int64(120)}},
			"RemediationFunctionLogGroup": {Type: "AWS::Logs::LogGroup"},
		},
	}

	result, err := Compare(before, after, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Diff.Removed) != 1 {
		t.Errorf("Removed = %d, want 1", len(result.Diff.Removed))
	} else if result.Diff.Removed[0].Resource != "RemediationRole" {
		t.Errorf("Removed[0].Resource = %s, want RemediationRole", result.Diff.Removed[0].Resource)
	}

	if len(result.Diff.Added) != 1 {
		t.Errorf("Added = %d, want 1", len(result.Diff.Added))
	} else if result.Diff.Added[0].Resource != "RemediationFunctionLogGroup" {
		t.Errorf("Added[0].Resource = %s, want RemediationFunctionLogGroup", result.Diff.Added[0].Resource)
	}

	if len(result.Diff.Modified) != 1 {
		t.Errorf("Modified = %d, want 1", len(result.Diff.Modified))
	} else if result.Diff.Modified[0].Resource != "RemediationFunction" {
		t.Errorf("Modified[0].Resource = %s, want RemediationFunction", result.Diff.Modified[0].Resource)
	}

	if result.Summary.Total != 3 {
		t.Errorf("Summary.Total = %d, want 3", result.Summary.Total)
	}
}

func TestCompareIdentical(t *testing.T) {
	tmpl := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationFunction": {Type: "AWS::Serverless::Function", Properties: map[string]any{"Handler": "index.handler"}},
		},
	}

	result, err := Compare(tmpl, tmpl, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if result.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0 for identical templates", result.Summary.Total)
	}
}

func TestCompareEmpty(t *testing.T) {
	t1 := &remediate.Template{Resources: map[string]remediate.ResourceDef{}}
	t2 := &remediate.Template{Resources: map[string]remediate.ResourceDef{}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if result.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0", result.Summary.Total)
	}
}

func TestCompareDeletionPolicyChange(t *testing.T) {
	before := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationFunctionLogGroup": {Type: "AWS::Logs::LogGroup", DeletionPolicy: "Retain"},
		},
	}
	after := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationFunctionLogGroup": {Type: "AWS::Logs::LogGroup", DeletionPolicy: "Delete"},
		},
	}

	result, err := Compare(before, after, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}

	found := false
	for _, change := range result.Diff.Modified[0].Changes {
		if change == "DeletionPolicy changed: Retain -> Delete" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected deletion policy change to be detected")
	}
}

func TestCompareMetadataChange(t *testing.T) {
	before := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationRole": {Type: "AWS::IAM::Role"},
		},
	}
	after := &remediate.Template{
		Resources: map[string]remediate.ResourceDef{
			"RemediationRole": {
				Type: "AWS::IAM::Role",
				Metadata: map[string]any{
					"cdk_nag": map[string]any{
						"rules_to_suppress": []any{map[string]any{"id": "AwsSolutions-IAM4", "reason": "execution role"}},
					},
				},
			},
		},
	}

	result, err := Compare(before, after, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}

	ignored, err := Compare(before, after, Options{IgnoreMetadata: true})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if ignored.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0 with metadata ignored", ignored.Summary.Total)
	}
}

func TestCompareProperties(t *testing.T) {
	tests := []struct {
		name    string
		props1  map[string]any
		props2  map[string]any
		wantLen int
	}{
		{
			name:    "identical",
			props1:  map[string]any{"Handler": "index.handler"},
			props2:  map[string]any{"Handler": "index.handler"},
			wantLen: 0,
		},
		{
			name:    "added property",
			props1:  map[string]any{},
			props2:  map[string]any{"KmsKeyArn": "arn:aws:kms:::key/1"},
			wantLen: 1,
		},
		{
			name:    "removed property",
			props1:  map[string]any{"KmsKeyArn": "arn:aws:kms:::key/1"},
			props2:  map[string]any{},
			wantLen: 1,
		},
		{
			name:    "modified property",
			props1:  map[string]any{"Runtime": "nodejs18.x"},
			props2:  map[string]any{"Runtime": "nodejs20.x"},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := compareProperties("", tt.props1, tt.props2)
			if len(changes) != tt.wantLen {
				t.Errorf("compareProperties() returned %d changes, want %d", len(changes), tt.wantLen)
			}
		})
	}
}

func TestEqualStringSlices(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{[]string{}, []string{}, true},
		{[]string{"a", "b"}, []string{"a", "b"}, true},
		{[]string{"a"}, []string{"b"}, false},
		{[]string{"a"}, []string{"a", "b"}, false},
	}

	for _, tt := range tests {
		got := equalStringSlices(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("equalStringSlices(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
