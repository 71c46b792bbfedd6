package serverless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	remediate "github.com/cloudassembly/remediate-aws-go"
	"github.com/cloudassembly/remediate-aws-go/internal/serialize"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource remediate.Resource
		expected string
	}{
		{"Function", Function{}, "AWS::Serverless::Function"},
		{"Permission", Permission{}, "AWS::Lambda::Permission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestFunctionSerialization(t *testing.T) {
	fn := Function{
		Handler:    "index.handler",
		Runtime:    "nodejs18.x",
		MemorySize: 256,
		Timeout:    60,
		CodeUri:    "remediate-resource-policy/dist",
		Role:       "arn:aws:iam::123456789012:role/remediation",
		Environment: &Function_Environment{
			Variables: map[string]any{
				"HOME_REGION": "us-east-1",
			},
		},
	}

	props, err := serialize.Resource(fn)
	require.NoError(t, err)

	assert.Equal(t, "index.handler", props["Handler"])
	assert.Equal(t, "nodejs18.x", props["Runtime"])
	assert.Equal(t, int64(256), props["MemorySize"])
	assert.Equal(t, int64(60), props["Timeout"])
	assert.Equal(t, "remediate-resource-policy/dist", props["CodeUri"])

	env := props["Environment"].(map[string]any)
	vars := env["Variables"].(map[string]any)
	assert.Equal(t, "us-east-1", vars["HOME_REGION"])
}

func TestFunctionSerialization_OmitsZeroValues(t *testing.T) {
	fn := Function{
		Handler: "index.handler",
		Runtime: "nodejs18.x",
	}

	props, err := serialize.Resource(fn)
	require.NoError(t, err)

	assert.NotContains(t, props, "Environment")
	assert.NotContains(t, props, "MemorySize")
	assert.NotContains(t, props, "KmsKeyArn")
	assert.NotContains(t, props, "Description")
}

func TestFunctionSerialization_AttrRefExcluded(t *testing.T) {
	fn := Function{
		Handler: "index.handler",
		Arn:     remediate.AttrRef{Resource: "RemediationFunction", Attribute: "Arn"},
	}

	props, err := serialize.Resource(fn)
	require.NoError(t, err)

	// Arn is an attribute reference for downstream composition, not a property.
	assert.NotContains(t, props, "Arn")
}

func TestPermissionSerialization(t *testing.T) {
	perm := Permission{
		FunctionName: remediate.AttrRef{Resource: "RemediationFunction", Attribute: "Arn"},
		Action:       "lambda:InvokeFunction",
		Principal:    "config.amazonaws.com",
	}

	props, err := serialize.Resource(perm)
	require.NoError(t, err)

	assert.Equal(t, "lambda:InvokeFunction", props["Action"])
	assert.Equal(t, "config.amazonaws.com", props["Principal"])

	fnName := props["FunctionName"].(map[string]any)
	assert.Contains(t, fnName, "Fn::GetAtt")
}
