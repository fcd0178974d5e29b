package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ChakriOriginals/MathVizAI/internal/config"
	"github.com/ChakriOriginals/MathVizAI/internal/llm"
	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

// recordingCaller returns a fixed response and keeps the prompts it saw.
type recordingCaller struct {
	response    string
	userPrompts []string
}

func (r *recordingCaller) Call(_ context.Context, _, userPrompt string) (string, error) {
	r.userPrompts = append(r.userPrompts, userPrompt)
	return r.response, nil
}

func newRunner(caller llm.Caller, limits config.Pipeline) *Runner {
	return NewRunner(llm.NewClient(caller), limits, 0)
}

func TestParse_TruncatesOversizedInput(t *testing.T) {
	caller := &recordingCaller{
		response: `{"main_topic": "T", "definitions": [], "key_equations": [], "core_claims": [], "example_instances": []}`,
	}
	r := newRunner(caller, config.Pipeline{MaxInputChars: 50})

	long := ""
	for i := 0; i < 20; i++ {
		long += "0123456789"
	}
	if _, err := r.Parse(context.Background(), long, "undergraduate"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	// The oversized tail must not reach the service.
	if len(caller.userPrompts) != 1 {
		t.Fatalf("want 1 call, got %d", len(caller.userPrompts))
	}
	if got := caller.userPrompts[0]; len(got) > 50+500 {
		// Prompt template text plus at most the truncated input.
		t.Fatalf("prompt suspiciously long (%d chars), truncation likely skipped", len(got))
	}
}

func TestConcepts_CappedAtLimit(t *testing.T) {
	concepts := make([]model.Concept, 7)
	ordering := make([]string, 7)
	for i := range concepts {
		name := fmt.Sprintf("c%d", i)
		concepts[i] = model.Concept{ConceptName: name}
		ordering[i] = name
	}
	payload, _ := json.Marshal(model.ConceptSet{CoreConcepts: concepts, ConceptOrdering: ordering})

	caller := &recordingCaller{response: string(payload)}
	r := newRunner(caller, config.Pipeline{MaxConcepts: 5})

	got, err := r.Concepts(context.Background(), model.ParsedContent{MainTopic: "T"}, "undergraduate")
	if err != nil {
		t.Fatalf("concepts: %v", err)
	}
	if len(got.CoreConcepts) != 5 {
		t.Fatalf("want 5 concepts, got %d", len(got.CoreConcepts))
	}
	if len(got.ConceptOrdering) != 5 {
		t.Fatalf("ordering must be capped alongside, got %d", len(got.ConceptOrdering))
	}
	if got.CoreConcepts[0].ConceptName != "c0" {
		t.Fatalf("cap must keep the leading concepts, got %q", got.CoreConcepts[0].ConceptName)
	}
}

func TestPedagogy_CapsAndRenumbersScenes(t *testing.T) {
	scenes := make([]model.Scene, 4)
	for i := range scenes {
		scenes[i] = model.Scene{SceneID: 90 + i, SceneTitle: fmt.Sprintf("s%d", i)}
	}
	payload, _ := json.Marshal(model.PedagogyPlan{Scenes: scenes})

	caller := &recordingCaller{response: string(payload)}
	r := newRunner(caller, config.Pipeline{MaxScenes: 3})

	got, err := r.Pedagogy(context.Background(), model.ConceptSet{}, "undergraduate")
	if err != nil {
		t.Fatalf("pedagogy: %v", err)
	}
	if len(got.Scenes) != 3 {
		t.Fatalf("want 3 scenes, got %d", len(got.Scenes))
	}
	for i, s := range got.Scenes {
		if s.SceneID != i+1 {
			t.Fatalf("scene %d has id %d, want %d", i, s.SceneID, i+1)
		}
	}
}

func TestCode_DecodesArtifact(t *testing.T) {
	caller := &recordingCaller{
		response: `{"manim_class_name": "PlotScene", "python_code": "class PlotScene(Scene):\n    pass"}`,
	}
	r := newRunner(caller, config.Pipeline{MaxCodeLines: 400})

	got, err := r.Code(context.Background(), model.SceneInstructionSet{}, model.PedagogyPlan{})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if got.ResolveEntryPoint() != "PlotScene" {
		t.Fatalf("entry point: %q", got.ResolveEntryPoint())
	}
}
