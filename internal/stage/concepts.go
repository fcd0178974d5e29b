package stage

import (
	"context"
	"log"

	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/prompts"
)

// Concepts extracts the visualizable concepts from parsed content, capped
// at the configured maximum.
func (r *Runner) Concepts(ctx context.Context, parsed model.ParsedContent, difficulty string) (model.ConceptSet, error) {
	var concepts model.ConceptSet
	err := r.Client.GenerateInto(ctx, llm.Request{
		Name:         "concept_set",
		SystemPrompt: prompts.ConceptSystem,
		UserPrompt:   prompts.Concepts(parsed, difficulty),
		Schema:       model.ConceptSetSchema,
		MaxRetries:   r.MaxRetries,
	}, &concepts)
	if err != nil {
		return model.ConceptSet{}, err
	}

	if max := r.Limits.MaxConcepts; max > 0 && len(concepts.CoreConcepts) > max {
		log.Printf("stage: capping concepts from %d to %d", len(concepts.CoreConcepts), max)
		concepts.CoreConcepts = concepts.CoreConcepts[:max]
		if len(concepts.ConceptOrdering) > max {
			concepts.ConceptOrdering = concepts.ConceptOrdering[:max]
		}
	}

	names := make([]string, 0, len(concepts.CoreConcepts))
	for _, c := range concepts.CoreConcepts {
		names = append(names, c.ConceptName)
	}
	log.Printf("stage: concept extraction complete: %v", names)
	return concepts, nil
}
