package sanitize

import (
	"testing"

	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

func instructionSet(instr ...model.SceneInstruction) model.SceneInstructionSet {
	return model.SceneInstructionSet{SceneInstructions: instr}
}

func TestApply_UnknownObjectTypeBecomesText(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 1,
		Objects: []model.SceneObject{
			{ObjID: "w1", ObjType: "Widget", Properties: map[string]any{}},
		},
	})

	out, report := Apply(set)

	obj := out.SceneInstructions[0].Objects[0]
	if obj.ObjType != DefaultObjectType {
		t.Fatalf("want %q, got %q", DefaultObjectType, obj.ObjType)
	}
	if obj.Properties["text"] != "w1" {
		t.Fatalf("replacement must synthesize a text property, got %v", obj.Properties["text"])
	}
	if report.ReplacedTypes != 1 {
		t.Fatalf("want 1 replaced type, got %d", report.ReplacedTypes)
	}
}

func TestApply_ExistingTextPropertyPreserved(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 1,
		Objects: []model.SceneObject{
			{ObjID: "w1", ObjType: "Sparkline", Properties: map[string]any{"text": "keep me"}},
		},
	})

	out, _ := Apply(set)
	if got := out.SceneInstructions[0].Objects[0].Properties["text"]; got != "keep me" {
		t.Fatalf("existing text must be preserved, got %v", got)
	}
}

func TestApply_UnknownActionBecomesFadeIn(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 1,
		Objects: []model.SceneObject{
			{ObjID: "dot", ObjType: "Dot"},
		},
		Animations: []model.Animation{
			{Action: "Explode", Target: "dot"},
		},
	})

	out, report := Apply(set)
	anims := out.SceneInstructions[0].Animations
	if len(anims) != 1 || anims[0].Action != DefaultAction {
		t.Fatalf("want one %s animation, got %+v", DefaultAction, anims)
	}
	if report.ReplacedActions != 1 {
		t.Fatalf("want 1 replaced action, got %d", report.ReplacedActions)
	}
}

func TestApply_DropsAnimationWithUnknownTarget(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 2,
		Objects: []model.SceneObject{
			{ObjID: "axes", ObjType: "Axes"},
		},
		Animations: []model.Animation{
			{Action: "Create", Target: "axes"},
			{Action: "FadeIn", Target: "ghost"},
		},
	})

	out, report := Apply(set)
	anims := out.SceneInstructions[0].Animations
	if len(anims) != 1 || anims[0].Target != "axes" {
		t.Fatalf("dangling-target animation must be dropped, got %+v", anims)
	}
	if report.DroppedAnimations != 1 {
		t.Fatalf("want 1 dropped animation, got %d", report.DroppedAnimations)
	}
}

func TestApply_TransformExemptFromTargetCheck(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 1,
		Animations: []model.Animation{
			{Action: "Transform", Target: "", Kwargs: map[string]any{"from": "a", "to": "b"}},
		},
	})

	out, report := Apply(set)
	if len(out.SceneInstructions[0].Animations) != 1 {
		t.Fatalf("Transform must never be dropped for a missing primary target")
	}
	if report.DroppedAnimations != 0 {
		t.Fatalf("want 0 dropped, got %d", report.DroppedAnimations)
	}
}

func TestApply_CleanSetUnchanged(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 1,
		Objects: []model.SceneObject{
			{ObjID: "eq", ObjType: "MathTex", Properties: map[string]any{"tex": "x^2"}},
		},
		Animations: []model.Animation{
			{Action: "Write", Target: "eq", Duration: 1.5},
		},
		CameraActions: []string{"zoom_in"},
	})

	out, report := Apply(set)
	if report.Total() != 0 {
		t.Fatalf("clean set must produce an empty report, got %+v", report)
	}
	got := out.SceneInstructions[0]
	if got.Objects[0].ObjType != "MathTex" || got.Animations[0].Action != "Write" {
		t.Fatalf("clean set must pass through unchanged, got %+v", got)
	}
	if len(got.CameraActions) != 1 {
		t.Fatalf("camera actions must be preserved")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	set := instructionSet(model.SceneInstruction{
		SceneID: 1,
		Objects: []model.SceneObject{
			{ObjID: "w1", ObjType: "Widget"},
		},
	})

	Apply(set)
	if set.SceneInstructions[0].Objects[0].ObjType != "Widget" {
		t.Fatalf("input set must not be mutated")
	}
}
