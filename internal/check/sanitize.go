package check

import "regexp"

// denyPatterns rejects commands that would affect more than the project
// working directory or pull and execute arbitrary remote code.
var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsudo\b`),
	regexp.MustCompile(`\brm\s+-rf\s+/(?:\s|$)`),
	regexp.MustCompile(`\b(curl|wget)\b[^|]*\|\s*(sh|bash)\b`),
	regexp.MustCompile(`\bmkfs\b`),
	regexp.MustCompile(`\bdd\s+if=`),
	regexp.MustCompile(`>\s*/dev/sd[a-z]`),
	regexp.MustCompile(`\bshutdown\b|\breboot\b`),
}

// sanitize reports whether command is safe to run. A command matching any
// deny pattern is rejected outright.
func sanitize(command string) bool {
	for _, pattern := range denyPatterns {
		if pattern.MatchString(command) {
			return false
		}
	}
	return true
}
