package repair

import (
	"fmt"
	"strings"
)

// CheckSyntax is the validity gate: a structural scan of Python source that
// verifies string termination, bracket balance, block-header colons, and
// indentation after headers. It is not a full grammar — code it rejects is
// replaced by the fallback scene, and code it cannot prove broken passes
// through, the same fail-safe posture as a real parse with weaker
// precision.
func CheckSyntax(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("empty program")
	}

	masked, lineState, err := maskLiterals(code)
	if err != nil {
		return err
	}
	return checkStructure(masked, lineState)
}

// lineInfo records the scanner state at the end of each physical line.
type lineInfo struct {
	depth    int  // bracket nesting depth
	inString bool // still inside a triple-quoted string
}

// maskLiterals replaces string literals with filler and comments with
// spaces so structural checks never misread literal content, while
// validating string termination and bracket pairing as it goes.
func maskLiterals(code string) (string, []lineInfo, error) {
	var out strings.Builder
	var stack []byte
	var states []lineInfo

	line := 1
	inString := false
	triple := false
	var quote byte
	escaped := false

	openerFor := map[byte]byte{')': '(', ']': '[', '}': '{'}

	i := 0
	for i < len(code) {
		c := code[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				out.WriteByte('x')
			case c == '\\':
				escaped = true
				out.WriteByte('x')
			case triple && c == quote && strings.HasPrefix(code[i:], strings.Repeat(string(quote), 3)):
				inString = false
				out.WriteString("xxx")
				i += 3
				continue
			case !triple && c == quote:
				inString = false
				out.WriteByte('x')
			case c == '\n':
				if !triple {
					return "", nil, fmt.Errorf("unterminated string literal on line %d", line)
				}
				states = append(states, lineInfo{depth: len(stack), inString: true})
				line++
				out.WriteByte('\n')
			default:
				out.WriteByte('x')
			}
			i++
			continue
		}

		switch c {
		case '\'', '"':
			inString = true
			quote = c
			if strings.HasPrefix(code[i:], strings.Repeat(string(c), 3)) {
				triple = true
				out.WriteString("xxx")
				i += 3
			} else {
				triple = false
				out.WriteByte('x')
				i++
			}
			continue
		case '#':
			for i < len(code) && code[i] != '\n' {
				out.WriteByte(' ')
				i++
			}
			continue
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 {
				return "", nil, fmt.Errorf("unmatched %q on line %d", c, line)
			}
			if stack[len(stack)-1] != openerFor[c] {
				return "", nil, fmt.Errorf("mismatched %q on line %d", c, line)
			}
			stack = stack[:len(stack)-1]
		case '\n':
			states = append(states, lineInfo{depth: len(stack)})
			line++
		}
		out.WriteByte(c)
		i++
	}

	if inString {
		return "", nil, fmt.Errorf("unterminated string literal at end of file")
	}
	if len(stack) > 0 {
		return "", nil, fmt.Errorf("unclosed %q at end of file", stack[len(stack)-1])
	}
	// State for a final line without trailing newline.
	states = append(states, lineInfo{})

	return out.String(), states, nil
}

// blockKeywords are statements that must end their logical line with a
// colon.
var blockKeywords = map[string]bool{
	"def": true, "class": true, "if": true, "elif": true, "else": true,
	"for": true, "while": true, "try": true, "except": true,
	"finally": true, "with": true,
}

// checkStructure validates logical-line structure on the masked source:
// block keywords carry colons, headers are followed by deeper indentation,
// and at least one block header exists at all.
func checkStructure(masked string, states []lineInfo) error {
	physical := strings.Split(masked, "\n")

	type logicalLine struct {
		number int
		indent int
		text   string
	}
	var logical []logicalLine

	for i := 0; i < len(physical); {
		start := i
		var parts []string
		for {
			parts = append(parts, physical[i])
			cont := false
			if i < len(states) && (states[i].depth > 0 || states[i].inString) {
				cont = true
			}
			if strings.HasSuffix(strings.TrimRight(physical[i], " \t"), "\\") {
				cont = true
			}
			i++
			if !cont || i >= len(physical) {
				break
			}
		}
		text := strings.TrimSpace(strings.Join(parts, " "))
		if text == "" {
			continue
		}
		logical = append(logical, logicalLine{
			number: start + 1,
			indent: indentOf(physical[start]),
			text:   text,
		})
	}

	sawHeader := false
	pendingHeader := false
	headerIndent := 0
	headerLine := 0

	for _, ll := range logical {
		if pendingHeader && ll.indent <= headerIndent {
			return fmt.Errorf("expected an indented block after line %d", headerLine)
		}
		pendingHeader = false

		first := firstWord(ll.text)
		if first == "async" {
			first = firstWord(strings.TrimSpace(strings.TrimPrefix(ll.text, "async")))
		}
		endsColon := strings.HasSuffix(strings.TrimRight(ll.text, " \t\\"), ":")

		if blockKeywords[first] {
			if !endsColon {
				return fmt.Errorf("missing colon after %q on line %d", first, ll.number)
			}
			sawHeader = true
			pendingHeader = true
			headerIndent = ll.indent
			headerLine = ll.number
		}
	}

	if pendingHeader {
		return fmt.Errorf("expected an indented block after line %d", headerLine)
	}
	if !sawHeader {
		return fmt.Errorf("no block structure found")
	}
	return nil
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 8
		default:
			return n
		}
	}
	return n
}

func firstWord(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (end > 0 && c >= '0' && c <= '9') {
			end++
			continue
		}
		break
	}
	return s[:end]
}
