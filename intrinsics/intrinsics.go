// Package intrinsics provides the CloudFormation intrinsic functions used by
// remediation deployment declarations.
//
// The core intrinsic types come from cloudformation-schema-go; this package
// re-exports the ones this module needs and adds IAM policy document types.
//
// Core intrinsic functions:
//
//	Ref{"RemediationFunction"} → {"Ref": "RemediationFunction"}
//	Sub{"${AWS::StackName}-remediation"} → {"Fn::Sub": "${AWS::StackName}-remediation"}
//	Join{"", []any{"/aws/lambda/", Ref{"RemediationFunction"}}} → {"Fn::Join": ["", [...]]}
//
// Pseudo-parameters:
//
//	AWS_PARTITION, AWS_REGION, AWS_ACCOUNT_ID, AWS_STACK_NAME
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	// Ref of a Lambda function resolves to the function's runtime name.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Param creates a Ref for a CloudFormation parameter.
var Param = intrinsics.Param
