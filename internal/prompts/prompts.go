// Package prompts builds the system and user prompts for each generation
// stage. The semantic content of prompts is not part of the pipeline
// contract; the structure requested from the service is.
package prompts

import (
	"fmt"
	"strings"

	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

// ParserSystem instructs extraction of structured mathematical content.
const ParserSystem = `You are an expert mathematical content analyst. Extract structured
information from mathematical text.

Return a JSON object with EXACTLY these keys:
{
  "main_topic": "<string: the central topic>",
  "definitions": ["<key definitions as plain English strings>"],
  "key_equations": ["<important equations in LaTeX notation>"],
  "core_claims": ["<main theorems or claims as plain English>"],
  "example_instances": ["<concrete examples or applications>"]
}

Rules:
- All LaTeX must be valid inline LaTeX (wrap in $...$)
- Definitions and claims must be plain, jargon-light English
- Maximum 6 items per list
- If information is absent, use an empty list []`

// Parser builds the user prompt for the parse stage.
func Parser(text, difficulty string) string {
	return fmt.Sprintf("Difficulty level: %s\n\nInput content:\n%s", difficulty, text)
}

// ConceptSystem instructs extraction of visualizable concepts.
const ConceptSystem = `You are an expert math educator who specializes in visual, intuitive teaching.

Given structured mathematical content, extract the 3-5 most important VISUALIZABLE concepts.
Prioritize concepts that can be shown as geometric transformations, graphs, or animations.

Return a JSON object with EXACTLY these keys:
{
  "core_concepts": [
    {
      "concept_name": "<short name>",
      "intuitive_explanation": "<1-2 sentence plain English explanation>",
      "mathematical_form": "<LaTeX expression wrapped in $...$>",
      "why_it_matters": "<1 sentence on significance>"
    }
  ],
  "concept_ordering": ["<concept_name_1>", "<concept_name_2>"]
}

Rules:
- concept_ordering must list all concept names in optimal teaching order (prerequisites first)
- mathematical_form must be valid LaTeX
- intuitive_explanation must avoid jargon
- Maximum 5 concepts total`

// Concepts builds the user prompt for the concept-extraction stage.
func Concepts(parsed model.ParsedContent, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Difficulty level: %s\n\n", difficulty)
	fmt.Fprintf(&b, "Main topic: %s\n\n", parsed.MainTopic)
	writeList(&b, "Definitions", parsed.Definitions)
	writeList(&b, "Key equations", parsed.KeyEquations)
	writeList(&b, "Core claims", parsed.CoreClaims)
	writeList(&b, "Examples", parsed.ExampleInstances)
	return b.String()
}

// PedagogySystem instructs scene-sequence planning.
const PedagogySystem = `You are an expert educational video producer.
You create pedagogically optimal scene sequences that:
1. Start with a compelling intuitive hook (NO equations at first)
2. Build understanding gradually with visual metaphors
3. Introduce formalism only after intuition is established
4. End with the formal mathematical statement

Given extracted concepts, design a sequence of animation scenes.

Return a JSON object with EXACTLY this structure:
{
  "scenes": [
    {
      "scene_id": 1,
      "scene_title": "<short title>",
      "learning_goal": "<what the viewer will understand after this scene>",
      "visual_metaphor": "<concrete visual or geometric idea to show>",
      "equations_to_show": ["<LaTeX equation>"],
      "animation_strategy": "<how objects animate, specific enough to generate code>",
      "estimated_duration_seconds": 40
    }
  ]
}

Rules:
- MUST have between 3 and 5 scenes
- Scene 1 MUST be an intuitive hook with NO equations (equations_to_show: [])
- Final scene MUST introduce the formal mathematical statement
- Each scene should be 30-60 seconds
- visual_metaphor must be something animatable (number lines, graphs, transformations)`

// Pedagogy builds the user prompt for the pedagogy-planning stage.
func Pedagogy(concepts model.ConceptSet, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Difficulty level: %s\n\n", difficulty)
	fmt.Fprintf(&b, "Concept ordering: %s\n\n", strings.Join(concepts.ConceptOrdering, ", "))
	b.WriteString("Concepts:\n")
	for _, c := range concepts.CoreConcepts {
		fmt.Fprintf(&b, "Concept: %s\nExplanation: %s\nMath: %s\nSignificance: %s\n\n",
			c.ConceptName, c.IntuitiveExplanation, c.MathematicalForm, c.WhyItMatters)
	}
	return b.String()
}

// InstructionSystem instructs conversion of a plan into object/animation
// instructions over a closed vocabulary.
const InstructionSystem = `Convert pedagogical scenes into Manim animation instructions.
ALLOWED object types: Axes, NumberLine, Text, MathTex, Graph, Arrow, Dot, Circle, Rectangle
ALLOWED animation actions: Create, Write, Transform, FadeIn, FadeOut, GrowFromCenter

Return ONLY this JSON structure, keep it concise:
{
  "scene_instructions": [
    {
      "scene_id": 1,
      "objects": [
        {"obj_id": "title_1", "obj_type": "Text", "properties": {"text": "Hello"}}
      ],
      "animations": [
        {"action": "Write", "target": "title_1", "duration": 1.5, "kwargs": {}}
      ],
      "camera_actions": []
    }
  ]
}
Rules:
- obj_id must be unique snake_case within each scene
- animation target must exactly match an obj_id from the same scene
- animations execute in ORDER; plan the sequence carefully
- For MathTex: properties must include a "tex_string" key with valid LaTeX
- For Text: properties must include a "text" key
- For Transform: put "source" and "target" in kwargs instead
- Keep each scene to 3-6 objects and 4-8 animations`

// Instructions builds the user prompt for the instruction stage.
func Instructions(plan model.PedagogyPlan) string {
	var b strings.Builder
	b.WriteString("Generate scene instructions for these scenes:\n\n")
	for i, s := range plan.Scenes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Scene %d: %s\nGoal: %s\nMetaphor: %s\nEquations: %s\nStrategy: %s\nDuration: ~%ds",
			s.SceneID, s.SceneTitle, s.LearningGoal, s.VisualMetaphor,
			strings.Join(s.EquationsToShow, "; "), s.AnimationStrategy, s.DurationSeconds)
	}
	return b.String()
}

// CodeSystem instructs generation of a complete runnable script.
const CodeSystem = `Generate a complete, runnable Manim (Community Edition v0.18+) Python script.

RULES:
1. Use ONLY: from manim import *
2. ONE class extending Scene named MathVizScene
3. Implement construct(self) method
4. Use self.play(...) for animations, self.wait(n) between scenes
5. Every variable in self.play() MUST be defined before that line
6. Use Write for Text/MathTex, Create for shapes/axes
7. Use FadeOut(*self.mobjects) to clear between scenes
8. Escape all LaTeX backslashes (\\frac, \\sum, \\int)
9. Keep total code under 400 lines
10. Add # === Scene N: Title === comments

Return JSON:
{
  "manim_class_name": "MathVizScene",
  "python_code": "<complete Python script>"
}`

// Code builds the user prompt for the code-generation stage, joining plan
// context (title, goal) with the concrete per-scene instructions.
func Code(instructions model.SceneInstructionSet, plan model.PedagogyPlan) string {
	titles := make(map[int]model.Scene, len(plan.Scenes))
	for _, s := range plan.Scenes {
		titles[s.SceneID] = s
	}

	var parts []string
	for _, instr := range instructions.SceneInstructions {
		title := fmt.Sprintf("Scene %d", instr.SceneID)
		goal := ""
		if s, ok := titles[instr.SceneID]; ok {
			title = s.SceneTitle
			goal = s.LearningGoal
		}

		var objects, anims []string
		for _, o := range instr.Objects {
			objects = append(objects, fmt.Sprintf("  - %s (%s): %v", o.ObjID, o.ObjType, o.Properties))
		}
		for _, a := range instr.Animations {
			anims = append(anims, fmt.Sprintf("  - %s(%s, duration=%g)", a.Action, a.Target, a.Duration))
		}

		parts = append(parts, fmt.Sprintf("Scene %d: %s\nGoal: %s\nObjects:\n%s\nAnimations:\n%s",
			instr.SceneID, title, goal, strings.Join(objects, "\n"), strings.Join(anims, "\n")))
	}

	return "Generate a Manim script for these scenes:\n\n" + strings.Join(parts, "\n\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "%s:\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
