package skill

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// skillsDirName is the fixed subdirectory, relative to the project
// directory, that holds per-role override files and the constitution.
const skillsDirName = "skills"

// Loader resolves and caches skill definitions by role.
type Loader struct {
	ProjectDir string

	mu    sync.Mutex
	cache map[pipeline.Role]Definition
}

// NewLoader returns a Loader rooted at projectDir.
func NewLoader(projectDir string) *Loader {
	return &Loader{ProjectDir: projectDir, cache: make(map[pipeline.Role]Definition)}
}

// SkillPath returns the path an override file for role would live at.
func (l *Loader) SkillPath(role pipeline.Role) string {
	return filepath.Join(l.ProjectDir, skillsDirName, strings.ToLower(string(role))+".md")
}

// Load returns the merged skill definition for role: the built-in default,
// overridden field-by-field by {role}.md under the skills directory if
// present. Results are cached by role until ClearCache is called.
func (l *Loader) Load(role pipeline.Role) (Definition, error) {
	l.mu.Lock()
	if cached, ok := l.cache[role]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	def := DefaultFor(role)

	data, err := os.ReadFile(l.SkillPath(role))
	if err == nil {
		override := parseOverride(string(data))
		def = merge(def, override)
	} else if !os.IsNotExist(err) {
		return Definition{}, err
	}
	def.Role = role

	l.mu.Lock()
	l.cache[role] = def
	l.mu.Unlock()
	return def, nil
}

// ClearCache empties the loader's per-role cache.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[pipeline.Role]Definition)
}

// preambleKeys are the scalar/list fields parseOverride recognizes before
// the remaining text becomes the system prompt body.
var preambleKeys = map[string]bool{
	"version": true, "required_outputs": true, "constraints": true,
}

// parseOverride reads an optional key: value preamble (version,
// required_outputs, constraints) from the top of content. Parsing stops at
// the first line that isn't a recognized preamble key; everything from
// there on (trimmed) becomes the system prompt. A file with no recognized
// preamble lines is treated as pure system-prompt text.
func parseOverride(content string) Definition {
	var override Definition
	scanner := bufio.NewScanner(strings.NewReader(content))
	var bodyStart int
	consumed := 0

	for scanner.Scan() {
		line := scanner.Text()
		consumed += len(line) + 1

		trimmed := strings.TrimSpace(line)
		key, value, ok := splitPreambleLine(trimmed)
		if !ok || !preambleKeys[key] {
			break
		}
		switch key {
		case "version":
			if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				override.Version = v
			}
		case "required_outputs":
			override.RequiredOutputs = splitList(value)
		case "constraints":
			override.Constraints = splitList(value)
		}
		bodyStart = consumed
	}

	override.SystemPrompt = strings.TrimSpace(content[bodyStart:])
	return override
}

func splitPreambleLine(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), line[idx+1:], true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// merge overlays override onto base, field by field; a zero-value override
// field leaves the base's value in place.
func merge(base, override Definition) Definition {
	merged := base
	if override.Version != 0 {
		merged.Version = override.Version
	}
	if len(override.RequiredOutputs) > 0 {
		merged.RequiredOutputs = override.RequiredOutputs
	}
	if len(override.Constraints) > 0 {
		merged.Constraints = override.Constraints
	}
	if override.SystemPrompt != "" {
		merged.SystemPrompt = override.SystemPrompt
	}
	return merged
}
