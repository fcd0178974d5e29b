package stage

import (
	"context"
	"log"

	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
	"github.com/ChakriOriginals/MathVizAI/internal/prompts"
)

// Parse turns raw topic text or a document excerpt into structured
// mathematical content. Input longer than the character budget is truncated
// before use.
func (r *Runner) Parse(ctx context.Context, rawText, difficulty string) (model.ParsedContent, error) {
	text := rawText
	if max := r.Limits.MaxInputChars; max > 0 && len(text) > max {
		log.Printf("stage: input truncated from %d to %d chars", len(text), max)
		text = text[:max]
	}

	var parsed model.ParsedContent
	err := r.Client.GenerateInto(ctx, llm.Request{
		Name:         "parsed_content",
		SystemPrompt: prompts.ParserSystem,
		UserPrompt:   prompts.Parser(text, difficulty),
		Schema:       model.ParsedContentSchema,
		MaxRetries:   r.MaxRetries,
	}, &parsed)
	if err != nil {
		return model.ParsedContent{}, err
	}

	log.Printf("stage: parse complete, topic %q", parsed.MainTopic)
	return parsed, nil
}
