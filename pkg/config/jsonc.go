package config

import "regexp"

// commentRe matches // line comments and /* ... */ block comments.
// It runs on the raw file text before JSON parsing and does not
// understand string literals, matching the platform's historical
// comment-stripping behavior.
var commentRe = regexp.MustCompile(`(/\*([^*]|[\r\n]|(\*+([^*/]|[\r\n])))*\*+/)|(//.*)`)

// StripComments removes // and /* ... */ comments from JSON text so
// that commented config files can be fed to a strict JSON parser.
func StripComments(raw []byte) []byte {
	return commentRe.ReplaceAll(raw, nil)
}
