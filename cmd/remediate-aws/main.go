// Command remediate-aws declares and renders the resource policy
// remediation deployment.
//
// Usage:
//
//	remediate-aws build deployment.yaml      Render the CloudFormation template
//	remediate-aws lint deployment.yaml       Validate the rendered template
//	remediate-aws diff before.json after.json  Compare rendered templates
//	remediate-aws graph deployment.yaml      Render the dependency graph
//	remediate-aws watch deployment.yaml      Rebuild on config or policy changes
//	remediate-aws version                    Show version
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "remediate-aws",
		Short: "Declare and render the resource policy remediation deployment",
		Long: `remediate-aws stages remediation policy documents into a deployment
package and renders the CloudFormation template that provisions the
remediation function, its log group, and the execution role suppressions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newBuildCmd(),
		newLintCmd(),
		newDiffCmd(),
		newGraphCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("remediate-aws %s\n", getVersion())
		},
	}
}
