package phase

import "os"

// expandVars substitutes ${VAR} references in template from vars, falling
// back to the process environment. Mirrors the teacher's prompt-templating
// shape, generalized off the phase-script config it was built for.
func expandVars(template string, vars map[string]string) string {
	return os.Expand(template, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}
