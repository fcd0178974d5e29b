// Package mathcheck filters generated LaTeX equations down to the subset
// that is structurally well-formed, before they reach the renderer. The
// filter is pure: it has no failure mode and can only shrink its input.
package mathcheck

import (
	"log"
	"regexp"
	"strings"
)

// EquationFilter is the math-validation collaborator contract.
type EquationFilter interface {
	FilterValid(equations []string) []string
}

// Checker is the shipped structural validator.
type Checker struct{}

// New returns a structural equation checker.
func New() *Checker { return &Checker{} }

var (
	displayDelim = regexp.MustCompile(`^\$\$|\$\$$`)
	inlineDelim  = regexp.MustCompile(`^\$|\$$`)
	bracketDelim = regexp.MustCompile(`^\\\[|\\\]$`)
)

// stripDelimiters removes $, $$, \[ \] wrappers.
func stripDelimiters(eq string) string {
	eq = strings.TrimSpace(eq)
	eq = displayDelim.ReplaceAllString(eq, "")
	eq = inlineDelim.ReplaceAllString(eq, "")
	eq = bracketDelim.ReplaceAllString(eq, "")
	return strings.TrimSpace(eq)
}

// Validate checks a single LaTeX string. An empty message means success.
func (c *Checker) Validate(latex string) (bool, string) {
	cleaned := stripDelimiters(latex)
	if cleaned == "" {
		return false, "empty equation string"
	}
	if err := checkBalance(cleaned); err != "" {
		return false, err
	}
	return true, ""
}

// FilterValid returns only the equations that pass structural validation.
func (c *Checker) FilterValid(equations []string) []string {
	valid := make([]string, 0, len(equations))
	for _, eq := range equations {
		ok, msg := c.Validate(eq)
		if !ok {
			log.Printf("mathcheck: invalid equation %q: %s", clip(eq, 60), msg)
			continue
		}
		valid = append(valid, eq)
	}
	if dropped := len(equations) - len(valid); dropped > 0 {
		log.Printf("mathcheck: %d of %d equations failed validation and were removed", dropped, len(equations))
	}
	return valid
}

// checkBalance verifies brace/bracket nesting and \left/\right pairing.
func checkBalance(s string) string {
	depth := 0
	leftRight := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			rest := s[i+1:]
			switch {
			case strings.HasPrefix(rest, "left"):
				leftRight++
				i += 4
			case strings.HasPrefix(rest, "right"):
				leftRight--
				if leftRight < 0 {
					return `\right without matching \left`
				}
				i += 5
			default:
				// Escaped character, including \{ and \}.
				i++
			}
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return "unbalanced closing brace"
			}
		}
	}
	if depth != 0 {
		return "unbalanced braces"
	}
	if leftRight != 0 {
		return `\left without matching \right`
	}
	return ""
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
