package util

import "regexp"

var (
	keyValuePattern = regexp.MustCompile(`(?i)(api_key|apikey|secret|token|password|access_key|private_key)\s*[:=]\s*([^\s"']+)`)
	privateKeyBlock = regexp.MustCompile(`(?is)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`)
	jwtPattern      = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.?[a-zA-Z0-9_-]*`)
	skPattern       = regexp.MustCompile(`(?i)sk-(proj-)?[a-z0-9_-]{20,}`)
	bearerPattern   = regexp.MustCompile(`(?i)(authorization:\s*bearer|bearer)\s+[a-z0-9._~+/-]+=*`)
)

// RedactSecrets removes likely secrets from text before it is logged or
// stored in the audit log.
func RedactSecrets(input string) string {
	out := keyValuePattern.ReplaceAllString(input, `$1=[REDACTED]`)
	out = privateKeyBlock.ReplaceAllString(out, "[REDACTED PRIVATE KEY]")
	out = jwtPattern.ReplaceAllString(out, "[REDACTED JWT]")
	out = skPattern.ReplaceAllString(out, "[REDACTED KEY]")
	out = bearerPattern.ReplaceAllString(out, "$1 [REDACTED]")
	return out
}
