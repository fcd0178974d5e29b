package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\n(.*?)```")

// ExtractJSON pulls the first JSON object or array out of model output.
// Markdown code fences around the payload are tolerated and stripped; bare
// JSON embedded in prose is located with a string-aware brace scan.
func ExtractJSON(output string) json.RawMessage {
	if matches := fenceRe.FindStringSubmatch(output); len(matches) > 1 {
		return json.RawMessage(strings.TrimSpace(matches[1]))
	}

	start := strings.IndexAny(output, "{[")
	if start == -1 {
		return nil
	}

	opener := output[start]
	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(output); i++ {
		if escaped {
			escaped = false
			continue
		}
		c := output[i]
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if c == opener {
			depth++
		} else if c == closer {
			depth--
			if depth == 0 {
				return json.RawMessage(output[start : i+1])
			}
		}
	}

	return nil
}
