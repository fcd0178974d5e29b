// Package repair turns unreliable generated Manim source into text that is
// guaranteed to reach the renderer in parseable form. A fixed, ordered
// sequence of idempotent rewrite passes fixes the mistakes generation
// services habitually make, and a final validity gate swaps anything still
// broken for a minimal always-valid fallback scene.
package repair

import "log"

// Pass is a single named, idempotent rewrite over source text.
type Pass struct {
	Name  string
	Apply func(string) string
}

// Passes returns the rewrite sequence in its fixed order. Re-running the
// whole sequence on already-repaired text yields byte-identical output.
func Passes() []Pass {
	return []Pass{
		{Name: "strip_fences", Apply: stripFences},
		{Name: "ensure_manim_import", Apply: ensureManimImport},
		{Name: "replace_deprecated_symbols", Apply: replaceDeprecatedSymbols},
		{Name: "normalize_run_time", Apply: normalizeRunTime},
		{Name: "dedupe_kwargs", Apply: dedupeKwargs},
		{Name: "promote_2d_points", Apply: promote2DPoints},
		{Name: "wrap_risky_constructors", Apply: wrapRiskyConstructors},
		{Name: "ensure_numpy_import", Apply: ensureNumpyImport},
	}
}

// FallbackScene is the fixed program substituted when the gate rejects the
// rewritten text. It is itself always syntactically valid.
const FallbackScene = `from manim import *

class MathVizScene(Scene):
    def construct(self):
        title = Text("Math Visualization", font_size=48)
        subtitle = Text("Animation generation encountered an error", font_size=28, color=YELLOW)
        subtitle.next_to(title, DOWN)
        self.play(Write(title, run_time=1.5))
        self.play(FadeIn(subtitle, run_time=1.0))
        self.wait(2)
`

// Repair runs every pass in order, then the validity gate. The returned
// bool reports whether the fallback scene was substituted. The gate is
// fail-safe, not fail-fast: it never returns an error past this boundary.
func Repair(code string) (string, bool) {
	for _, p := range Passes() {
		code = p.Apply(code)
	}
	if err := CheckSyntax(code); err != nil {
		log.Printf("repair: syntax gate rejected generated code (%v), substituting fallback scene", err)
		return FallbackScene, true
	}
	return code, false
}
