// Package logs provides CloudWatch Logs resource types.
package logs

import (
	remediate "github.com/cloudassembly/remediate-aws-go"
)

// LogGroup represents an AWS::Logs::LogGroup resource.
//
// A Lambda function writes to the log group named "/aws/lambda/" followed by
// the function's runtime name, so LogGroupName is usually derived from a Ref
// of the function rather than hardcoded.
type LogGroup struct {
	// LogGroupName accepts a string or an intrinsic deriving the name.
	LogGroupName    any
	RetentionInDays int
	// KmsKeyId encrypts the log group with the given KMS key.
	KmsKeyId any

	// Arn is the Fn::GetAtt reference to the log group ARN.
	Arn remediate.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (LogGroup) ResourceType() string { return "AWS::Logs::LogGroup" }
