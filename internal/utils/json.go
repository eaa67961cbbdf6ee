// Package utils provides helpers shared by the oracle and the CLI.
package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled regexes for JSON repair.
// NOTE: repair only covers syntax slips. Truncated documents are not completed,
// so a cut-off oracle answer still fails and the caller degrades.
var (
	// "value"\n"key": -> "value", "key":
	missingCommaBeforeKeyRegex = regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`)

	// 12\n"key": -> 12, "key":
	missingCommaAfterValueRegex = regexp.MustCompile(`(\d|true|false|null)\s*\n\s*("[\w][^"]*"\s*:)`)

	// ,} -> }
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// {'key': -> {"key":
	singleQuoteKeyRegex = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)

	// : 'value' -> : "value"
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)
)

// ExtractAndParseJSON extracts the first JSON value from an LLM response and
// unmarshals it into T. Markdown fences and trailing prose are ignored.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := cleanLLMResponse(response)
	if cleaned == "" {
		return result, fmt.Errorf("no JSON found in response")
	}

	// Some models return the document as a quoted JSON string.
	if strings.HasPrefix(cleaned, `"`) {
		var asString string
		if err := json.Unmarshal([]byte(cleaned), &asString); err == nil && asString != cleaned {
			return ExtractAndParseJSON[T](asString)
		}
	}

	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, fmt.Errorf("no JSON start ({ or [) found")
	}

	// Decoder reads exactly one value and ignores whatever follows it.
	jsonPart := cleaned[idx:]
	decoder := json.NewDecoder(strings.NewReader(jsonPart))
	if err := decoder.Decode(&result); err != nil {
		repaired := repairJSON(jsonPart)
		if repaired != jsonPart {
			var second T
			if err2 := json.NewDecoder(strings.NewReader(repaired)).Decode(&second); err2 == nil {
				return second, nil
			}
		}
		return result, fmt.Errorf("parse JSON: %w", err)
	}

	return result, nil
}

// repairJSON fixes common JSON syntax errors from LLMs: raw control
// characters in strings, missing and trailing commas, single quotes.
func repairJSON(input string) string {
	result := sanitizeControlChars(input)

	result = missingCommaBeforeKeyRegex.ReplaceAllString(result, `$1, $2`)
	result = missingCommaAfterValueRegex.ReplaceAllString(result, `$1, $2`)
	result = trailingCommaRegex.ReplaceAllString(result, `$1`)
	result = singleQuoteKeyRegex.ReplaceAllString(result, `$1"$2"$3`)

	result = singleQuoteValueRegex.ReplaceAllStringFunc(result, func(match string) string {
		parts := singleQuoteValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		value := strings.ReplaceAll(parts[2], `\'`, `'`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return parts[1] + `"` + value + `"` + parts[3]
	})

	return result
}

// sanitizeControlChars escapes literal control characters inside JSON strings.
func sanitizeControlChars(input string) string {
	var result strings.Builder
	result.Grow(len(input))

	inString := false
	escaped := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			result.WriteByte(c)
			escaped = false
			continue
		}

		if c == '\\' && inString {
			result.WriteByte(c)
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			result.WriteByte(c)
			continue
		}

		if !inString {
			result.WriteByte(c)
			continue
		}

		switch c {
		case '\t':
			result.WriteString(`\t`)
		case '\n':
			result.WriteString(`\n`)
		case '\r':
			result.WriteString(`\r`)
		default:
			if c < 0x20 {
				result.WriteString(fmt.Sprintf(`\u%04x`, c))
			} else {
				result.WriteByte(c)
			}
		}
	}

	return result.String()
}

// cleanLLMResponse strips markdown code fences around a JSON answer.
func cleanLLMResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")

	return strings.TrimSpace(response)
}
