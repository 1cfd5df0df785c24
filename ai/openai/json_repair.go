package openai

// repairJSON attempts to fix common JSON formatting issues from LLM responses.
// It specifically handles missing opening quotes before keys in JSON objects,
// e.g. `, tags":` becomes `, "tags":`.
func repairJSON(s string) string {
	src := []rune(s)
	fixed := make([]rune, 0, len(src)+16)

	i := 0
	for i < len(src) {
		ch := src[i]

		// Unquoted keys can only appear after { or ,
		if ch != '{' && ch != ',' {
			fixed = append(fixed, ch)
			i++
			continue
		}

		fixed = append(fixed, ch)
		i++

		for i < len(src) && (src[i] == ' ' || src[i] == '\n' || src[i] == '\t') {
			fixed = append(fixed, src[i])
			i++
		}

		if i >= len(src) || src[i] == '"' || !isLetter(src[i]) {
			continue
		}

		keyStart := i
		for i < len(src) && (isLetter(src[i]) || src[i] == '_') {
			i++
		}

		// A bare word followed by ": means the opening quote was dropped;
		// the closing quote at src[i] is already in place.
		if i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			fixed = append(fixed, '"')
		}
		fixed = append(fixed, src[keyStart:i]...)
	}

	return string(fixed)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
