package stage

import (
	"context"
	"log"

	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/prompts"
)

// Instructions converts the pedagogy plan into concrete object/animation
// instructions. Sanitization runs unconditionally afterwards, sequenced by
// the orchestrator.
func (r *Runner) Instructions(ctx context.Context, plan model.PedagogyPlan) (model.SceneInstructionSet, error) {
	var set model.SceneInstructionSet
	err := r.Client.GenerateInto(ctx, llm.Request{
		Name:         "scene_instruction_set",
		SystemPrompt: prompts.InstructionSystem,
		UserPrompt:   prompts.Instructions(plan),
		Schema:       model.SceneInstructionSetSchema,
		MaxRetries:   r.MaxRetries,
	}, &set)
	if err != nil {
		return model.SceneInstructionSet{}, err
	}

	log.Printf("stage: %d scene instructions generated", len(set.SceneInstructions))
	return set, nil
}
