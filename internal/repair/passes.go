package repair

import (
	"regexp"
	"strings"
)

const manimImport = "from manim import *"

var (
	fencePythonRe = regexp.MustCompile("```python\\s*")
	fenceRe       = regexp.MustCompile("```\\s*")
)

// stripFences removes markdown code-fence delimiters that leak into
// generated source.
func stripFences(code string) string {
	code = fencePythonRe.ReplaceAllString(code, "")
	return fenceRe.ReplaceAllString(code, "")
}

// ensureManimImport guarantees the wildcard manim import appears exactly
// once: prepended when absent, duplicates collapsed to the first otherwise.
func ensureManimImport(code string) string {
	if !strings.Contains(code, "from manim import") {
		return manimImport + "\n\n" + code
	}

	lines := strings.Split(code, "\n")
	out := lines[:0]
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == manimImport {
			if seen {
				continue
			}
			seen = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// substitution maps a deprecated or renamed API symbol to its current
// equivalent. Patterns are word-boundary anchored so no replacement target
// can match its own output, keeping the pass idempotent.
var substitutions = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\bShowCreation\s*\(`), "Create("},
	{regexp.MustCompile(`\bCYAN\b`), "TEAL"},
	{regexp.MustCompile(`\bMAGENTA\b`), "PINK"},
	{regexp.MustCompile(`\bBROWN\b`), "DARK_BROWN"},
	{regexp.MustCompile(`\bLIGHT_BLUE\b`), "BLUE_B"},
	{regexp.MustCompile(`\bLIGHT_GREEN\b`), "GREEN_B"},
	{regexp.MustCompile(`\bLIGHT_RED\b`), "RED_B"},
	{regexp.MustCompile(`\bDARK_RED\b`), "MAROON"},
}

// replaceDeprecatedSymbols applies the fixed deprecated-symbol table.
func replaceDeprecatedSymbols(code string) string {
	for _, s := range substitutions {
		code = s.pattern.ReplaceAllString(code, s.repl)
	}
	return code
}

var durationKwargRe = regexp.MustCompile(`([,(]\s*)duration(\s*=)`)

// normalizeRunTime renames the duration= call keyword to run_time=, its
// current name. Only keyword positions inside calls are touched.
func normalizeRunTime(code string) string {
	return durationKwargRe.ReplaceAllString(code, "${1}run_time${2}")
}

var (
	kwargRe         = regexp.MustCompile(`\b([a-zA-Z_]\w*)\s*=\s*[^,)]+`)
	doubleCommaRe   = regexp.MustCompile(`,\s*,`)
	trailingCommaRe = regexp.MustCompile(`,\s*\)`)
	leadingCommaRe  = regexp.MustCompile(`\(\s*,\s*`)
)

// dedupeKwargs removes all but the first occurrence of a repeated keyword
// argument within a line and cleans up the separators left behind. This is
// a lexical per-line rewrite, not an expression parse: nested calls sharing
// a line can produce false matches, and the pass is best-effort by design.
func dedupeKwargs(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		seen := map[string]bool{}
		line = kwargRe.ReplaceAllStringFunc(line, func(m string) string {
			key := kwargRe.FindStringSubmatch(m)[1]
			if seen[key] {
				return ""
			}
			seen[key] = true
			return m
		})
		for doubleCommaRe.MatchString(line) {
			line = doubleCommaRe.ReplaceAllString(line, ",")
		}
		line = trailingCommaRe.ReplaceAllString(line, ")")
		line = leadingCommaRe.ReplaceAllString(line, "(")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// coordinate kwargs and method calls that require 3-component points.
var (
	coordKwargRes = []*regexp.Regexp{
		regexp.MustCompile(`(\bpoint\s*=\s*)\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]`),
		regexp.MustCompile(`(\bstart\s*=\s*)\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]`),
		regexp.MustCompile(`(\bend\s*=\s*)\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]`),
		regexp.MustCompile(`(\barc_center\s*=\s*)\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]`),
		regexp.MustCompile(`(\.move_to\s*\()\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]`),
		regexp.MustCompile(`(\.shift\s*\()\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]`),
	}
)

// promote2DPoints rewrites 2-component coordinate literals to 3-component
// form by appending a zero. The pattern requires exactly two flat
// components, so already-promoted literals never match again.
func promote2DPoints(code string) string {
	for _, re := range coordKwargRes {
		code = re.ReplaceAllString(code, "${1}[${2}, ${3}, 0]")
	}
	return code
}

const safeMathTexHelper = `
def safe_mathtex(*args, **kwargs):
    try:
        return MathTex(*args, **kwargs)
    except Exception:
        label = str(args[0]) if args else "equation"
        return Text(label, font_size=30)
`

var mathTexCallRe = regexp.MustCompile(`\bMathTex\s*\(`)

// wrapRiskyConstructors redirects MathTex construction through an injected
// helper that degrades failures to a plain-text substitute, so one bad
// LaTeX string loses a label instead of the whole render. Calls are
// rewritten before the helper is inserted so the helper's own constructor
// reference survives.
func wrapRiskyConstructors(code string) string {
	if strings.Contains(code, "def safe_mathtex") {
		return code
	}
	if !mathTexCallRe.MatchString(code) {
		return code
	}
	code = mathTexCallRe.ReplaceAllString(code, "safe_mathtex(")
	return insertAfterImport(code, safeMathTexHelper)
}

var numpyRefRe = regexp.MustCompile(`\bnp\.[A-Za-z_]`)

// ensureNumpyImport adds the numpy import when np. symbols appear without
// one.
func ensureNumpyImport(code string) string {
	if !numpyRefRe.MatchString(code) {
		return code
	}
	if strings.Contains(code, "import numpy") {
		return code
	}
	return insertAfterImport(code, "import numpy as np\n")
}

// insertAfterImport places a snippet directly after the manim import line,
// or at the top when no import line exists.
func insertAfterImport(code, snippet string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == manimImport {
			rest := append([]string{snippet}, lines[i+1:]...)
			return strings.Join(append(lines[:i+1:i+1], rest...), "\n")
		}
	}
	return snippet + "\n" + code
}
