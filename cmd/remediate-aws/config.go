package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	remediate "github.com/cloudassembly/remediate-aws-go"
	"github.com/cloudassembly/remediate-aws-go/intrinsics"
	"github.com/cloudassembly/remediate-aws-go/remediation"
	"github.com/cloudassembly/remediate-aws-go/resources/iam"
)

// RoleLogicalID names the execution role when the config declares one
// inline instead of referencing an existing ARN.
const RoleLogicalID = "RemediationRole"

// Config is the YAML deployment configuration the CLI consumes.
type Config struct {
	AcceleratorPrefix string `yaml:"acceleratorPrefix"`
	HomeRegion        string `yaml:"homeRegion"`

	// ConfigDir holds policy sources; defaults to the config file's
	// directory.
	ConfigDir string `yaml:"configDir"`

	// ArtifactRoot overrides where the deployment package is staged.
	ArtifactRoot string `yaml:"artifactRoot"`

	LogRetentionDays     int    `yaml:"logRetentionDays"`
	LogKmsKeyArn         string `yaml:"logKmsKeyArn"`
	EnvironmentKmsKeyArn string `yaml:"environmentKmsKeyArn"`

	ExecutionRole ExecutionRoleConfig      `yaml:"executionRole"`
	Policies      []remediation.PolicyFile `yaml:"policies"`
}

// ExecutionRoleConfig selects the function execution role. Exactly one of
// Arn or Name must be set: Arn references an existing role, Name declares
// one in the same template with the standard suppressions attached.
type ExecutionRoleConfig struct {
	Arn               string   `yaml:"arn"`
	Name              string   `yaml:"name"`
	ManagedPolicyArns []string `yaml:"managedPolicyArns"`
}

// LoadConfig reads and parses a deployment config file. ConfigDir defaults
// to the directory containing the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Dir(path)
	}

	if cfg.ExecutionRole.Arn == "" && cfg.ExecutionRole.Name == "" {
		return nil, fmt.Errorf("config: executionRole requires arn or name")
	}
	if cfg.ExecutionRole.Arn != "" && cfg.ExecutionRole.Name != "" {
		return nil, fmt.Errorf("config: executionRole arn and name are mutually exclusive")
	}

	return &cfg, nil
}

// buildDeployment turns the config into a staged deployment.
func buildDeployment(cfg *Config) (*remediation.Deployment, error) {
	props := remediation.Props{
		AcceleratorPrefix:  cfg.AcceleratorPrefix,
		ConfigDirPath:      cfg.ConfigDir,
		HomeRegion:         cfg.HomeRegion,
		Role:               roleReference(cfg),
		LogKmsKey:          cfg.LogKmsKeyArn,
		LogRetentionInDays: cfg.LogRetentionDays,
		Policies:           cfg.Policies,
	}
	if cfg.EnvironmentKmsKeyArn != "" {
		props.EnvironmentKmsKey = cfg.EnvironmentKmsKeyArn
	}

	conv := remediation.DefaultConventions()
	if cfg.ArtifactRoot != "" {
		conv.ArtifactRoot = cfg.ArtifactRoot
	}

	return remediation.NewWithConventions(props, conv)
}

// renderTemplate builds the deployment and renders its template, declaring
// the execution role inline when the config asks for one.
func renderTemplate(cfg *Config) (*remediate.Template, *remediation.Deployment, error) {
	d, err := buildDeployment(cfg)
	if err != nil {
		return nil, nil, err
	}

	var opts []remediation.TemplateOption
	if cfg.ExecutionRole.Name != "" {
		opts = append(opts, remediation.WithDeclaredRole(RoleLogicalID, executionRole(cfg)))
	}

	tmpl, err := d.Template(opts...)
	if err != nil {
		return nil, nil, err
	}
	return tmpl, d, nil
}

// roleReference returns what the function's Role property should carry.
func roleReference(cfg *Config) any {
	if cfg.ExecutionRole.Arn != "" {
		return cfg.ExecutionRole.Arn
	}
	return remediate.AttrRef{Resource: RoleLogicalID, Attribute: "Arn"}
}

// executionRole declares the inline execution role from config.
func executionRole(cfg *Config) iam.Role {
	trust := intrinsics.NewPolicyDocument()
	trust.Statement = []any{intrinsics.PolicyStatement{
		Effect:    "Allow",
		Principal: intrinsics.ServicePrincipal{"lambda.amazonaws.com"},
		Action:    "sts:AssumeRole",
	}}

	managed := make([]any, 0, len(cfg.ExecutionRole.ManagedPolicyArns))
	for _, arn := range cfg.ExecutionRole.ManagedPolicyArns {
		managed = append(managed, arn)
	}

	return iam.Role{
		RoleName:                 cfg.ExecutionRole.Name,
		AssumeRolePolicyDocument: trust,
		ManagedPolicyArns:        managed,
	}
}
