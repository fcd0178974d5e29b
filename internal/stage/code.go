package stage

import (
	"context"
	"log"
	"strings"

	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/prompts"
)

// Code generates the render script from sanitized instructions plus the
// plan's scene context. Repair and the validity gate run unconditionally
// afterwards, sequenced by the orchestrator.
func (r *Runner) Code(ctx context.Context, instructions model.SceneInstructionSet, plan model.PedagogyPlan) (model.GeneratedCode, error) {
	var code model.GeneratedCode
	err := r.Client.GenerateInto(ctx, llm.Request{
		Name:         "generated_code",
		SystemPrompt: prompts.CodeSystem,
		UserPrompt:   prompts.Code(instructions, plan),
		Schema:       model.GeneratedCodeSchema,
		MaxRetries:   r.MaxRetries,
	}, &code)
	if err != nil {
		return model.GeneratedCode{}, err
	}

	lines := len(strings.Split(strings.TrimSpace(code.SourceText), "\n"))
	if max := r.Limits.MaxCodeLines; max > 0 && lines > max {
		log.Printf("stage: generated code is %d lines (limit %d), may be truncated", lines, max)
	}
	log.Printf("stage: code generated, entry point %s, %d lines", code.ResolveEntryPoint(), lines)
	return code, nil
}
