package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudassembly/remediate-aws-go/internal/serialize"
	"github.com/cloudassembly/remediate-aws-go/intrinsics"
)

func TestLogGroup_ResourceType(t *testing.T) {
	assert.Equal(t, "AWS::Logs::LogGroup", LogGroup{}.ResourceType())
}

func TestLogGroupSerialization_DerivedName(t *testing.T) {
	lg := LogGroup{
		LogGroupName: intrinsics.Join{
			Delimiter: "",
			Values:    []any{"/aws/lambda/", intrinsics.Ref{LogicalName: "RemediationFunction"}},
		},
		RetentionInDays: 365,
		KmsKeyId:        "arn:aws:kms:us-east-1:123456789012:key/abc",
	}

	props, err := serialize.Resource(lg)
	require.NoError(t, err)

	assert.Equal(t, int64(365), props["RetentionInDays"])
	assert.Equal(t, "arn:aws:kms:us-east-1:123456789012:key/abc", props["KmsKeyId"])

	name := props["LogGroupName"].(map[string]any)
	assert.Contains(t, name, "Fn::Join")
}

func TestLogGroupSerialization_OmitsZeroValues(t *testing.T) {
	lg := LogGroup{LogGroupName: "/aws/lambda/manual"}

	props, err := serialize.Resource(lg)
	require.NoError(t, err)

	assert.Equal(t, "/aws/lambda/manual", props["LogGroupName"])
	assert.NotContains(t, props, "RetentionInDays")
	assert.NotContains(t, props, "KmsKeyId")
	assert.NotContains(t, props, "Arn")
}
