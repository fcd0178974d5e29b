package generate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChakriOriginals/MathVizAI/internal/app"
)

var (
	cfgPath    string
	difficulty string
	showTrace  bool
)

// Cmd represents the `mathviz generate` command.
var Cmd = &cobra.Command{
	Use:           "generate <topic or text>",
	Short:         "Run the pipeline once and print the result",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, orch, err := app.Build(cfgPath)
		if err != nil {
			return err
		}

		topic := strings.Join(args, " ")
		resp := orch.Run(cmd.Context(), topic, difficulty, "")

		if !showTrace {
			resp.Trace = nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if resp.Status != "success" {
			return fmt.Errorf("generation failed: %s", resp.Error)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.yaml)")
	Cmd.Flags().StringVarP(&difficulty, "level", "l", "", "Difficulty level (default undergraduate)")
	Cmd.Flags().BoolVar(&showTrace, "trace", false, "Include the full pipeline trace in output")
}
