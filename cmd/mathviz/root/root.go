package root

import (
	"github.com/spf13/cobra"

	"github.com/ChakriOriginals/MathVizAI/cmd/mathviz/generate"
	"github.com/ChakriOriginals/MathVizAI/cmd/mathviz/serve"
)

// NewRootCmd creates the root command for mathviz.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mathviz",
		Short: "Generate narrated math animations from a topic or document",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serve.Cmd)
	cmd.AddCommand(generate.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
