package util

import (
	"strings"
	"unicode/utf8"
)

// TailRunes keeps the last n characters of input. It reports whether
// anything was dropped.
func TailRunes(input string, n int) (string, bool) {
	if n <= 0 {
		return "", input != ""
	}
	if utf8.RuneCountInString(input) <= n {
		return input, false
	}
	runes := []rune(input)
	return string(runes[len(runes)-n:]), true
}

// TruncateBytes trims a string to maxBytes if needed without splitting a
// UTF-8 sequence.
func TruncateBytes(input string, maxBytes int) (string, bool) {
	if maxBytes <= 0 || len(input) <= maxBytes {
		return input, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(input[cut]) {
		cut--
	}
	return input[:cut], true
}

// TruncateLinesAndBytes limits lines and total byte count.
func TruncateLinesAndBytes(lines []string, maxLines int, maxBytes int) (out []string, truncated bool, byteCount int) {
	if maxLines <= 0 && maxBytes <= 0 {
		return lines, false, len(strings.Join(lines, "\n"))
	}
	for _, line := range lines {
		if maxLines > 0 && len(out) >= maxLines {
			truncated = true
			break
		}
		sep := 0
		if len(out) > 0 {
			sep = 1
		}
		if maxBytes > 0 && byteCount+sep+len(line) > maxBytes {
			truncated = true
			break
		}
		byteCount += sep + len(line)
		out = append(out, line)
	}
	return out, truncated, byteCount
}

// Preview returns a short preview of text by limiting lines and bytes.
func Preview(text string, maxLines int, maxBytes int) string {
	if text == "" {
		return ""
	}
	trimmed, _, _ := TruncateLinesAndBytes(strings.Split(text, "\n"), maxLines, maxBytes)
	return strings.Join(trimmed, "\n")
}
