// Package iam provides IAM resource types.
//
// The remediation deployment never creates its own execution role; these types
// exist so a caller can declare the role in the same template and pass its ARN
// reference to the deployment.
package iam

import (
	remediate "github.com/cloudassembly/remediate-aws-go"
)

// Role represents an AWS::IAM::Role resource.
type Role struct {
	RoleName                 any
	Description              string
	AssumeRolePolicyDocument any
	ManagedPolicyArns        []any
	Policies                 []any
	Path                     string

	// Arn is the Fn::GetAtt reference to the role ARN.
	Arn remediate.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline policy attached to a role.
type Role_Policy struct {
	PolicyName     string
	PolicyDocument any
}
