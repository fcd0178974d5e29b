package stage

import (
	"context"
	"log"

	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/prompts"
)

// Pedagogy plans the scene sequence from extracted concepts. Scenes are
// capped at the configured maximum and scene_ids renumbered sequentially
// from 1 so later stages can rely on them.
func (r *Runner) Pedagogy(ctx context.Context, concepts model.ConceptSet, difficulty string) (model.PedagogyPlan, error) {
	var plan model.PedagogyPlan
	err := r.Client.GenerateInto(ctx, llm.Request{
		Name:         "pedagogy_plan",
		SystemPrompt: prompts.PedagogySystem,
		UserPrompt:   prompts.Pedagogy(concepts, difficulty),
		Schema:       model.PedagogyPlanSchema,
		MaxRetries:   r.MaxRetries,
	}, &plan)
	if err != nil {
		return model.PedagogyPlan{}, err
	}

	if max := r.Limits.MaxScenes; max > 0 && len(plan.Scenes) > max {
		log.Printf("stage: capping scenes from %d to %d", len(plan.Scenes), max)
		plan.Scenes = plan.Scenes[:max]
	}
	for i := range plan.Scenes {
		plan.Scenes[i].SceneID = i + 1
	}

	titles := make([]string, 0, len(plan.Scenes))
	for _, s := range plan.Scenes {
		titles = append(titles, s.SceneTitle)
	}
	log.Printf("stage: pedagogy plan complete: %v", titles)
	return plan, nil
}
