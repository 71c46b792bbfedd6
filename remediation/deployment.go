// Package remediation declares the resources that run a resource policy
// remediation function: the function itself, its log group, and the
// rule suppressions its caller-supplied execution role needs.
package remediation

import (
	"fmt"
	"path/filepath"

	remediate "github.com/cloudassembly/remediate-aws-go"
	"github.com/cloudassembly/remediate-aws-go/intrinsics"
	"github.com/cloudassembly/remediate-aws-go/internal/staging"
	"github.com/cloudassembly/remediate-aws-go/internal/template"
	"github.com/cloudassembly/remediate-aws-go/nag"
	"github.com/cloudassembly/remediate-aws-go/resources/iam"
	"github.com/cloudassembly/remediate-aws-go/resources/logs"
	"github.com/cloudassembly/remediate-aws-go/resources/serverless"
)

// Logical names of the resources a deployment declares.
const (
	FunctionLogicalID = "RemediationFunction"
	LogGroupLogicalID = "RemediationFunctionLogGroup"
)

// Conventions fixes the deployment constants that are not caller inputs.
// They live in a struct rather than as package constants so tests can
// override them without touching the assembly logic.
type Conventions struct {
	// ArtifactRoot is the directory the artifact subdir is created under.
	ArtifactRoot string
	// ArtifactSubdir is the deployment package directory, relative to
	// ArtifactRoot.
	ArtifactSubdir string
	// Runtime, Handler and TimeoutSeconds configure the function.
	Runtime        string
	Handler        string
	TimeoutSeconds int
}

// DefaultConventions returns the conventions every production deployment
// uses.
func DefaultConventions() Conventions {
	return Conventions{
		ArtifactRoot:   ".",
		ArtifactSubdir: filepath.Join("remediate-resource-policy", "dist"),
		Runtime:        "nodejs18.x",
		Handler:        "index.handler",
		TimeoutSeconds: 60,
	}
}

// Deployment holds the declared resources. The function and log group are
// plain resource structs; callers may inspect or extend them before
// rendering a template.
type Deployment struct {
	Function     serverless.Function
	LogGroup     logs.LogGroup
	Suppressions []nag.Suppression

	// ArtifactDir is the staged deployment package directory the
	// function's CodeUri points at.
	ArtifactDir string
	// StagedPolicies lists the policy files copied into ArtifactDir,
	// in input order.
	StagedPolicies []string

	conventions Conventions
}

// New stages the policy files and declares the deployment resources using
// the default conventions. Staging happens before any resource is declared;
// a staging failure means no resources exist.
func New(props Props) (*Deployment, error) {
	return NewWithConventions(props, DefaultConventions())
}

// NewWithConventions is New with caller-controlled conventions. Zero-value
// convention fields fall back to their defaults.
func NewWithConventions(props Props, conv Conventions) (*Deployment, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("remediation props: %w", err)
	}
	conv = withDefaults(conv)

	artifactDir := filepath.Join(conv.ArtifactRoot, conv.ArtifactSubdir)
	files := make([]staging.File, 0, len(props.Policies))
	for _, p := range props.Policies {
		source := p.Source
		if !filepath.IsAbs(source) {
			source = filepath.Join(props.ConfigDirPath, source)
		}
		files = append(files, staging.File{
			Name:   p.Name,
			Source: source,
			Dest:   p.Staging,
		})
	}
	staged, err := staging.Stage(files, artifactDir)
	if err != nil {
		return nil, fmt.Errorf("staging policy files: %w", err)
	}

	env := map[string]any{
		"ACCELERATOR_PREFIX": props.AcceleratorPrefix,
		"AWS_PARTITION":      intrinsics.AWS_PARTITION,
		"HOME_REGION":        props.HomeRegion,
	}
	fn := serverless.Function{
		Description: "Remediates the resource based policy of a non-compliant resource",
		Runtime:     conv.Runtime,
		Handler:     conv.Handler,
		Timeout:     conv.TimeoutSeconds,
		CodeUri:     staged.Dir,
		Role:        props.Role,
		Environment: &serverless.Function_Environment{Variables: env},
		KmsKeyArn:   props.EnvironmentKmsKey,
		Arn:         remediate.AttrRef{Resource: FunctionLogicalID, Attribute: "Arn"},
	}

	lg := logs.LogGroup{
		LogGroupName: intrinsics.Join{
			Delimiter: "",
			Values:    []any{"/aws/lambda/", intrinsics.Ref{LogicalName: FunctionLogicalID}},
		},
		RetentionInDays: props.LogRetentionInDays,
		KmsKeyId:        props.LogKmsKey,
		Arn:             remediate.AttrRef{Resource: LogGroupLogicalID, Attribute: "Arn"},
	}

	return &Deployment{
		Function:       fn,
		LogGroup:       lg,
		Suppressions:   RoleSuppressions(),
		ArtifactDir:    staged.Dir,
		StagedPolicies: staged.Staged,
		conventions:    conv,
	}, nil
}

// RoleSuppressions returns the rule suppressions every remediation
// execution role carries. The wildcard suppression applies to descendants
// because the role's default policy is generated, not authored; the
// managed policy suppression does not.
func RoleSuppressions() []nag.Suppression {
	return []nag.Suppression{
		{
			RuleID: nag.RuleManagedPolicies,
			Reason: "Managed policies required for the remediation function execution role",
		},
		{
			RuleID:               nag.RuleWildcardPermissions,
			Reason:               "Wildcards scoped to the resources targeted for remediation",
			AppliesToDescendants: true,
		},
	}
}

// TemplateOption adjusts how Template assembles the output.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	roleName string
	role     *iam.Role
}

// WithDeclaredRole declares role under name in the same template and
// attaches the deployment's suppressions to it. The deployment's function
// must already reference the role, typically through an AttrRef to name.
func WithDeclaredRole(name string, role iam.Role) TemplateOption {
	return func(c *templateConfig) {
		c.roleName = name
		c.role = &role
	}
}

// Template renders the deployment into a standalone template. The log
// group depends on the function so its derived name resolves, and is
// deleted with the stack rather than retained.
func (d *Deployment) Template(opts ...TemplateOption) (*remediate.Template, error) {
	var cfg templateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b := template.NewBuilder()
	b.SetDescription("Resource policy remediation deployment")
	if err := b.AddResource(FunctionLogicalID, d.Function); err != nil {
		return nil, err
	}
	err := b.AddResource(LogGroupLogicalID, d.LogGroup,
		template.WithDependsOn(FunctionLogicalID),
		template.WithDeletionPolicy(remediate.DeletionPolicyDelete),
	)
	if err != nil {
		return nil, err
	}
	if cfg.role != nil {
		err := b.AddResource(cfg.roleName, *cfg.role,
			template.WithSuppressions(d.Suppressions...),
		)
		if err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func withDefaults(conv Conventions) Conventions {
	def := DefaultConventions()
	if conv.ArtifactRoot == "" {
		conv.ArtifactRoot = def.ArtifactRoot
	}
	if conv.ArtifactSubdir == "" {
		conv.ArtifactSubdir = def.ArtifactSubdir
	}
	if conv.Runtime == "" {
		conv.Runtime = def.Runtime
	}
	if conv.Handler == "" {
		conv.Handler = def.Handler
	}
	if conv.TimeoutSeconds == 0 {
		conv.TimeoutSeconds = def.TimeoutSeconds
	}
	return conv
}
