// Package app wires configuration into a runnable pipeline.
package app

import (
	"fmt"

	"github.com/ChakriOriginals/MathVizAI/internal/config"
	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/mathcheck"
	"github.com/ChakriOriginals/MathVizAI/internal/pipeline"
	"github.com/ChakriOriginals/MathVizAI/internal/render"
	"github.com/ChakriOriginals/MathVizAI/internal/stage"
)

// Build loads configuration and assembles the orchestrator with its real
// collaborators.
func Build(cfgPath string) (*config.Config, *pipeline.Orchestrator, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("prepare work dirs: %w", err)
	}

	client := llm.NewClient(llm.NewOpenAICaller(cfg.LLM))
	runner := stage.NewRunner(client, cfg.Pipeline, cfg.LLM.MaxRetries)
	orch := pipeline.New(runner, mathcheck.New(), render.NewManager(cfg.Render), pipeline.NewEventBus())
	return cfg, orch, nil
}
