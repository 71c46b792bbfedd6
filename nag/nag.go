// Package nag models static security scanner suppressions.
//
// A suppression is a recorded justification telling a scanner to ignore a
// specific finding on a specific resource. Suppressions are declaration
// metadata only; they never change runtime behavior.
package nag

// Rule identifiers recognized by the scanner.
const (
	// RuleManagedPolicies flags use of AWS managed policies on a role.
	RuleManagedPolicies = "AwsSolutions-IAM4"
	// RuleWildcardPermissions flags wildcard actions or resources in a policy.
	RuleWildcardPermissions = "AwsSolutions-IAM5"
)

// Suppression records a justification for ignoring one rule on one resource.
type Suppression struct {
	// RuleID is the scanner rule being suppressed.
	RuleID string
	// Reason justifies the suppression for auditors.
	Reason string
	// AppliesToDescendants extends the suppression to resources created
	// under the target, such as the default policy attached to a role.
	AppliesToDescendants bool
}

// Metadata renders suppressions as the resource metadata block scanners read.
//
// The block merges into a ResourceDef's Metadata:
//
//	"Metadata": {
//	    "cdk_nag": {
//	        "rules_to_suppress": [
//	            {"id": "AwsSolutions-IAM4", "reason": "..."}
//	        ]
//	    }
//	}
func Metadata(sups ...Suppression) map[string]any {
	rules := make([]any, 0, len(sups))
	for _, s := range sups {
		rule := map[string]any{
			"id":     s.RuleID,
			"reason": s.Reason,
		}
		if s.AppliesToDescendants {
			rule["applies_to_descendants"] = true
		}
		rules = append(rules, rule)
	}
	return map[string]any{
		"cdk_nag": map[string]any{
			"rules_to_suppress": rules,
		},
	}
}
