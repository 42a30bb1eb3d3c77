package project

import (
	"path"
	"strings"
)

// IsDenylisted reports whether p likely holds credentials and must never be
// copied into model context.
func IsDenylisted(p string) bool {
	lower := strings.ToLower(p)
	base := strings.ToLower(path.Base(lower))

	if strings.HasPrefix(base, ".env") {
		return true
	}
	for _, ext := range []string{".pem", ".key", ".p12", ".pfx"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	if strings.HasPrefix(base, "id_rsa") || strings.HasPrefix(base, "id_ed25519") {
		return true
	}
	if base == ".npmrc" || base == ".netrc" {
		return true
	}
	return strings.Contains(lower, ".aws/credentials") || strings.Contains(lower, ".docker/config.json")
}
