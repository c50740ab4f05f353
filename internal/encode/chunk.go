package encode

// chunkText splits text into ordered pieces of at most maxLen characters.
// Text within the limit comes back as a single piece. Longer text is split at
// stride boundaries (stride stays below maxLen to leave formatting headroom),
// and every piece is clamped to maxLen even if the stride computation
// overshoots. Concatenating the pieces reproduces the original text.
func chunkText(text string, stride, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}
	if stride <= 0 || stride > maxLen {
		stride = maxLen
	}
	pieces := make([]string, 0, (len(runes)+stride-1)/stride)
	for i := 0; i < len(runes); i += stride {
		end := i + stride
		if end > len(runes) {
			end = len(runes)
		}
		if end-i > maxLen {
			end = i + maxLen
		}
		pieces = append(pieces, string(runes[i:end]))
	}
	return pieces
}

// clampRunes returns s cut to at most max characters; max <= 0 yields the
// empty string.
func clampRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
