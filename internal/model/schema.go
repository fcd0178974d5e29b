package model

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Per-stage CUE schemas. Required keys must be present and concrete; extra
// keys the generation service invents are tolerated, matching the original
// contract of "exact required key set per stage".
const (
	ParsedContentSchema = `{
	main_topic: string & !=""
	definitions: [...string]
	key_equations: [...string]
	core_claims: [...string]
	example_instances: [...string]
}`

	ConceptSetSchema = `{
	core_concepts: [...{
		concept_name: string & !=""
		intuitive_explanation: string
		mathematical_form: string
		why_it_matters: string
	}]
	concept_ordering: [...string]
}`

	PedagogyPlanSchema = `{
	scenes: [...{
		scene_id: int
		scene_title: string & !=""
		learning_goal: string
		visual_metaphor: string
		equations_to_show: [...string]
		animation_strategy: string
		estimated_duration_seconds?: int
	}]
}`

	SceneInstructionSetSchema = `{
	scene_instructions: [...{
		scene_id: int
		objects: [...{
			obj_id: string & !=""
			obj_type: string & !=""
			properties: {...}
		}]
		animations: [...{
			action: string & !=""
			target: string
			duration?: number
			kwargs?: {...}
		}]
		camera_actions: [...string]
	}]
}`

	GeneratedCodeSchema = `{
	manim_class_name: string & !=""
	python_code: string & !=""
}`
)

// ValidateSchema checks raw JSON against a CUE schema. JSON is a subset of
// CUE, so the document compiles directly and is unified with the schema.
func ValidateSchema(raw []byte, schema string) error {
	ctx := cuecontext.New()

	s := ctx.CompileString(schema)
	if err := s.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	doc := ctx.CompileBytes(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("compile document: %w", err)
	}

	if err := s.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema mismatch: %w", err)
	}
	return nil
}
