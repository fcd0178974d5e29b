// Package sanitize clamps generated scene instructions to the closed
// vocabularies the renderer understands. It never fails: out-of-vocabulary
// entries are rewritten to safe defaults or dropped, and corrections are
// counted for observability.
package sanitize

import (
	"log"

	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

// Closed vocabularies. These are fixed pipeline knowledge, independent of
// whatever the generation stage invents.
var (
	AllowedObjectTypes = map[string]bool{
		"Axes": true, "NumberLine": true, "Text": true, "MathTex": true,
		"Graph": true, "Arrow": true, "Dot": true, "Circle": true, "Rectangle": true,
	}
	AllowedActions = map[string]bool{
		"Create": true, "Write": true, "Transform": true, "FadeIn": true,
		"FadeOut": true, "GrowFromCenter": true, "ShowCreation": true,
	}
)

const (
	// DefaultObjectType replaces unknown object types; a label/text property
	// is synthesized from the object id when none exists.
	DefaultObjectType = "Text"
	// DefaultAction replaces unknown animation actions.
	DefaultAction = "FadeIn"
	// TransformAction carries its object references in kwargs, so its
	// primary target is exempt from same-scene reference checks.
	TransformAction = "Transform"
)

// Report counts the corrections applied to one instruction set.
type Report struct {
	ReplacedTypes     int `json:"replaced_types"`
	ReplacedActions   int `json:"replaced_actions"`
	DroppedAnimations int `json:"dropped_animations"`
}

// Total returns the overall number of corrections.
func (r Report) Total() int {
	return r.ReplacedTypes + r.ReplacedActions + r.DroppedAnimations
}

// Apply sanitizes every scene instruction in the set and returns the
// rewritten copy plus a correction report.
func Apply(set model.SceneInstructionSet) (model.SceneInstructionSet, Report) {
	var report Report
	out := model.SceneInstructionSet{
		SceneInstructions: make([]model.SceneInstruction, 0, len(set.SceneInstructions)),
	}
	for _, instr := range set.SceneInstructions {
		out.SceneInstructions = append(out.SceneInstructions, sanitizeInstruction(instr, &report))
	}
	if report.Total() > 0 {
		log.Printf("sanitize: %d type replacements, %d action replacements, %d animations dropped",
			report.ReplacedTypes, report.ReplacedActions, report.DroppedAnimations)
	}
	return out, report
}

func sanitizeInstruction(instr model.SceneInstruction, report *Report) model.SceneInstruction {
	validIDs := make(map[string]bool, len(instr.Objects))

	objects := make([]model.SceneObject, 0, len(instr.Objects))
	for _, obj := range instr.Objects {
		if !AllowedObjectTypes[obj.ObjType] {
			log.Printf("sanitize: unknown obj_type %q replaced with %q", obj.ObjType, DefaultObjectType)
			obj.ObjType = DefaultObjectType
			if obj.Properties == nil {
				obj.Properties = map[string]any{}
			}
			if _, ok := obj.Properties["text"]; !ok {
				obj.Properties["text"] = obj.ObjID
			}
			report.ReplacedTypes++
		}
		validIDs[obj.ObjID] = true
		objects = append(objects, obj)
	}

	animations := make([]model.Animation, 0, len(instr.Animations))
	for _, anim := range instr.Animations {
		if !AllowedActions[anim.Action] {
			log.Printf("sanitize: unknown action %q replaced with %q", anim.Action, DefaultAction)
			anim.Action = DefaultAction
			report.ReplacedActions++
		}
		// Better to silently omit an animation than crash the renderer on an
		// undefined reference.
		if anim.Action != TransformAction && !validIDs[anim.Target] {
			log.Printf("sanitize: animation target %q not found in scene %d, dropping", anim.Target, instr.SceneID)
			report.DroppedAnimations++
			continue
		}
		animations = append(animations, anim)
	}

	return model.SceneInstruction{
		SceneID:       instr.SceneID,
		Objects:       objects,
		Animations:    animations,
		CameraActions: instr.CameraActions,
	}
}
