package remediation

import (
	validator "gopkg.in/go-playground/validator.v9"
)

// PolicyFile is one resource policy document shipped inside the function
// deployment package. Source is resolved against Props.ConfigDirPath when
// relative. Staging defaults to the file's Name when empty, and may contain
// slashes to place the file in a subdirectory of the artifact.
type PolicyFile struct {
	Name    string `yaml:"name" validate:"required"`
	Source  string `yaml:"source" validate:"required"`
	Staging string `yaml:"staging"`
}

// Props carries everything the caller must supply to declare a remediation
// deployment. The execution role is always provided by the caller, either as
// an ARN string or as a reference to a role declared elsewhere in the same
// template; the deployment never creates one.
type Props struct {
	// AcceleratorPrefix namespaces resources created by the wider
	// provisioning system and is exported to the function environment.
	AcceleratorPrefix string `validate:"required"`

	// ConfigDirPath is the directory holding the caller's configuration
	// tree. Relative policy file sources are resolved against it.
	ConfigDirPath string `validate:"required"`

	// HomeRegion is the region the provisioning system calls home,
	// exported to the function environment.
	HomeRegion string `validate:"required"`

	// Role is the function execution role: an ARN string, an
	// intrinsics.Ref, or a remediate.AttrRef to a declared role.
	Role any `validate:"required"`

	// LogKmsKey encrypts the function log group.
	LogKmsKey any `validate:"required"`

	// EnvironmentKmsKey encrypts the function environment variables.
	// Optional; when nil the service default encryption applies.
	EnvironmentKmsKey any

	// LogRetentionInDays bounds how long function logs are kept.
	LogRetentionInDays int `validate:"required,gt=0"`

	// Policies lists the policy documents to stage into the deployment
	// package. An empty list is valid and produces a function with no
	// bundled policies.
	Policies []PolicyFile `validate:"dive"`
}

// Validate checks the props before any staging or declaration happens.
func (p Props) Validate() error {
	return validator.New().Struct(p)
}
