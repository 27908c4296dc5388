package cli

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Regex to tokenize JSON parts:
	// 1. Keys (quoted strings followed by colon)
	// 2. String values (quoted strings)
	// 3. Numbers / Booleans / Null
	jsonTokenRegex = regexp.MustCompile(`("(\\u[a-zA-Z0-9]{4}|\\[^u]|[^\\"])*"(\s*:)?|\b(true|false|null)\b|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?)`)
)

// HighlightJSON takes a JSON string (minified or indented) and applies ANSI colors.
func HighlightJSON(jsonStr string) string {
	if !Enabled() {
		return jsonStr
	}

	return jsonTokenRegex.ReplaceAllStringFunc(jsonStr, func(token string) string {
		switch {
		case strings.HasSuffix(token, ":"):
			key := strings.TrimRight(token[:len(token)-1], " \t")
			return fmt.Sprintf("%s%s%s:", Blue, key, ResetCode)
		case strings.HasPrefix(token, "\""):
			return fmt.Sprintf("%s%s%s", Green, token, ResetCode)
		case token == "true" || token == "false":
			return fmt.Sprintf("%s%s%s", Yellow, token, ResetCode)
		case token == "null":
			return fmt.Sprintf("%s%s%s", DimCode, token, ResetCode)
		default:
			return fmt.Sprintf("%s%s%s", Purple, token, ResetCode)
		}
	})
}
