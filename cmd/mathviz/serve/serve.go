package serve

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ChakriOriginals/MathVizAI/internal/app"
	"github.com/ChakriOriginals/MathVizAI/internal/server"
)

var cfgPath string

// Cmd represents the `mathviz serve` command.
var Cmd = &cobra.Command{
	Use:           "serve",
	Short:         "Start the HTTP API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, orch, err := app.Build(cfgPath)
		if err != nil {
			return err
		}
		srv := server.New(cfg, orch)
		log.Printf("serving API on port %d (model %s)", cfg.Server.Port, cfg.LLM.Model)
		return srv.Start()
	},
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.yaml)")
}
