// Package serverless provides AWS SAM resource types.
//
// AWS::Serverless::Function binds a local code artifact directory (CodeUri) to
// a deployed function; the provisioning backend packages the directory when the
// template is submitted.
package serverless

import (
	remediate "github.com/cloudassembly/remediate-aws-go"
)

// Function represents an AWS::Serverless::Function resource.
//
// Example:
//
//	fn := serverless.Function{
//	    Handler: "index.handler",
//	    Runtime: "nodejs18.x",
//	    Timeout: 60,
//	    CodeUri: "remediate-resource-policy/dist",
//	    Role:    "arn:aws:iam::123456789012:role/remediation",
//	}
type Function struct {
	FunctionName any
	Description  string
	Handler      string
	Runtime      string
	// CodeUri is the code artifact: a local directory to package, or an S3 URI.
	CodeUri any
	// Role is the execution role reference (ARN string, AttrRef, or intrinsic).
	Role        any
	Timeout     int
	MemorySize  int
	Environment *Function_Environment
	// KmsKeyArn encrypts the function's environment variables at rest.
	KmsKeyArn any
	Tags      map[string]string

	// Arn is the Fn::GetAtt reference to the function ARN.
	Arn remediate.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (Function) ResourceType() string { return "AWS::Serverless::Function" }

// Function_Environment configures the function's environment variables.
type Function_Environment struct {
	Variables map[string]any
}

// Permission represents an AWS::Lambda::Permission resource granting another
// service or principal the right to invoke a function.
type Permission struct {
	FunctionName any
	Action       string
	Principal    string
	SourceArn    any
}

// ResourceType returns the CloudFormation type.
func (Permission) ResourceType() string { return "AWS::Lambda::Permission" }
