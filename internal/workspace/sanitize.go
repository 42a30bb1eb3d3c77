package workspace

import (
	"path"
	"strings"
)

// Sanitize normalizes a caller-supplied path into a slash-separated path
// relative to the project root. Traversal above the root collapses onto the
// root, so "../../etc/passwd" becomes "etc/passwd" and ".." becomes "".
func Sanitize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = stripDrive(p)
	cleaned := path.Clean("/" + p)
	return strings.TrimLeft(cleaned, "/")
}

// stripDrive drops a leading "C:" only when it is a whole drive reference,
// so names such as "a:b.txt" survive.
func stripDrive(p string) string {
	if len(p) < 2 || p[1] != ':' || !isLetter(p[0]) {
		return p
	}
	if len(p) == 2 || p[2] == '/' {
		return p[2:]
	}
	return p
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
