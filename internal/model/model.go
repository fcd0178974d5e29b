// Package model defines the typed artifacts passed between pipeline stages.
// Each artifact is a plain schema-validated record; ordering between
// concepts and scenes is carried in explicit fields, never iteration order.
package model

import "regexp"

// ParsedContent is the parser stage output.
type ParsedContent struct {
	MainTopic        string   `json:"main_topic"`
	Definitions      []string `json:"definitions"`
	KeyEquations     []string `json:"key_equations"`
	CoreClaims       []string `json:"core_claims"`
	ExampleInstances []string `json:"example_instances"`
}

// Concept is a single visualizable concept.
type Concept struct {
	ConceptName          string `json:"concept_name"`
	IntuitiveExplanation string `json:"intuitive_explanation"`
	MathematicalForm     string `json:"mathematical_form"`
	WhyItMatters         string `json:"why_it_matters"`
}

// ConceptSet is the concept-extraction stage output. ConceptOrdering lists
// concept names in teaching order and is the authoritative sequence.
type ConceptSet struct {
	CoreConcepts    []Concept `json:"core_concepts"`
	ConceptOrdering []string  `json:"concept_ordering"`
}

// Scene is one planned animation scene.
type Scene struct {
	SceneID           int      `json:"scene_id"`
	SceneTitle        string   `json:"scene_title"`
	LearningGoal      string   `json:"learning_goal"`
	VisualMetaphor    string   `json:"visual_metaphor"`
	EquationsToShow   []string `json:"equations_to_show"`
	AnimationStrategy string   `json:"animation_strategy"`
	DurationSeconds   int      `json:"estimated_duration_seconds"`
}

// PedagogyPlan is the pedagogy-planning stage output.
type PedagogyPlan struct {
	Scenes []Scene `json:"scenes"`
}

// SceneObject is a renderable object declared by the instruction stage.
type SceneObject struct {
	ObjID      string         `json:"obj_id"`
	ObjType    string         `json:"obj_type"`
	Properties map[string]any `json:"properties"`
}

// Animation is a single animation call over a declared object. For the
// Transform action the source/target references live in Kwargs, not Target.
type Animation struct {
	Action   string         `json:"action"`
	Target   string         `json:"target"`
	Duration float64        `json:"duration"`
	Kwargs   map[string]any `json:"kwargs"`
}

// SceneInstruction is the per-scene object/animation listing.
type SceneInstruction struct {
	SceneID       int           `json:"scene_id"`
	Objects       []SceneObject `json:"objects"`
	Animations    []Animation   `json:"animations"`
	CameraActions []string      `json:"camera_actions"`
}

// SceneInstructionSet is the instruction stage output.
type SceneInstructionSet struct {
	SceneInstructions []SceneInstruction `json:"scene_instructions"`
}

// DefaultEntryPoint is the scene class used when generated code declares
// no parseable entry point.
const DefaultEntryPoint = "MathVizScene"

// entryPointPattern matches the first declared Scene subclass.
var entryPointPattern = regexp.MustCompile(`(?m)^\s*class\s+([A-Za-z_]\w*)\s*\([^)]*\bScene\b[^)]*\)\s*:`)

// GeneratedCode is the code-generation stage output.
type GeneratedCode struct {
	EntryPointName string `json:"manim_class_name"`
	SourceText     string `json:"python_code"`
}

// ResolveEntryPoint returns the entry-point class name. A class declaration
// parsed out of the source always wins over the declared field; when neither
// is usable the fixed default applies.
func (g GeneratedCode) ResolveEntryPoint() string {
	if m := entryPointPattern.FindStringSubmatch(g.SourceText); m != nil {
		return m[1]
	}
	if g.EntryPointName != "" {
		return g.EntryPointName
	}
	return DefaultEntryPoint
}
