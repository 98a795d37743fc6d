// Package redact scrubs sensitive fragments (connection strings, SQL, file
// paths) from error text before it is logged, so a leaked driver error never
// carries credentials or schema details into the log stream.
package redact

import "regexp"

const (
	redactedCredential = "[REDACTED_CREDENTIAL]"
	redactedPath       = "[REDACTED_PATH]"
	redactedSQL        = "[REDACTED_SQL]"
	redactedHost       = "[REDACTED_HOST]"
)

var patterns = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	// Database connection strings with embedded credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), redactedCredential},
	// Password-like key/value fragments
	{regexp.MustCompile(`(?i)(password|passwd|secret)([=:\s]['"]?)[^'"&\s]{3,}`), redactedCredential},
	// SQL statements echoed back by the driver
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()=$]+(FROM|INTO|SET)[\s\w,*()=$'."]*`), redactedSQL},
	// Absolute file paths
	{regexp.MustCompile(`(/[\w.-]+){2,}`), redactedPath},
	// host:port endpoints
	{regexp.MustCompile(`\b[\w.-]+\.[a-zA-Z]{2,}:\d{1,5}\b`), redactedHost},
}

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.placeholder)
	}
	return result
}

// Error redacts sensitive fragments from an error's message.
// Returns the empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
