package extraction

import "strings"

// scanState is the lexical state of the depth scanner
type scanState int

const (
	stateNormal scanState = iota
	stateInString
	stateEscapePending
)

// matchingBrace returns the index of the '}' closing the object that opens at start,
// ignoring braces inside string literals. It returns -1 when the object never closes.
func matchingBrace(text string, start int) int {
	depth := 0
	state := stateNormal

	for i := start; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateEscapePending:
			state = stateInString
		case stateInString:
			switch c {
			case '\\':
				state = stateEscapePending
			case '"':
				state = stateNormal
			}
		case stateNormal:
			switch c {
			case '"':
				state = stateInString
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}
	return -1
}

// removeTrailingCommas deletes commas that directly precede a closing '}' or ']' outside strings
func removeTrailingCommas(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	state := stateNormal

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateEscapePending:
			state = stateInString
		case stateInString:
			switch c {
			case '\\':
				state = stateEscapePending
			case '"':
				state = stateNormal
			}
		case stateNormal:
			if c == '"' {
				state = stateInString
			} else if c == ',' && closesAfterWhitespace(text, i+1) {
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func closesAfterWhitespace(text string, from int) bool {
	for j := from; j < len(text); j++ {
		switch text[j] {
		case ' ', '\t', '\r', '\n':
			continue
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}
