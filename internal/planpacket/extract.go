// Package planpacket extracts the structured fields a PlanPacket needs
// (acceptance criteria, constraints, open questions, artifact dependencies)
// from a plan-like role's free-text markdown output.
package planpacket

import "strings"

// sectionFields maps a recognized section header (lowercased, markdown
// hashes and trailing colon stripped) to the Sections field it fills.
var sectionFields = map[string]string{
	"acceptance criteria":   "acceptance",
	"constraints":           "constraints",
	"open questions":        "open_questions",
	"artifact dependencies": "dependencies",
}

// Sections is the structured content a plan-like role is expected to
// surface under labeled headings in its markdown output.
type Sections struct {
	AcceptanceCriteria   []string
	Constraints          []string
	OpenQuestions        []string
	ArtifactDependencies []string
}

// Extract scans a plan artifact's markdown body for the labeled sections
// roles are prompted to emit and collects each section's bullet lines
// ("- " or "* " prefixed) until the next recognized or markdown header. A
// section absent from the text leaves its field nil; this is expected for
// plans that, say, raise no open questions.
func Extract(body string) Sections {
	var sec Sections
	var current *[]string

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if field, ok := sectionFields[normalizeHeader(trimmed)]; ok {
			current = fieldFor(&sec, field)
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			current = nil
			continue
		}
		if current == nil {
			continue
		}
		if item, ok := bulletItem(trimmed); ok {
			*current = append(*current, item)
		}
	}
	return sec
}

func fieldFor(sec *Sections, field string) *[]string {
	switch field {
	case "acceptance":
		return &sec.AcceptanceCriteria
	case "constraints":
		return &sec.Constraints
	case "open_questions":
		return &sec.OpenQuestions
	case "dependencies":
		return &sec.ArtifactDependencies
	default:
		return nil
	}
}

// normalizeHeader strips leading markdown hashes and a trailing colon and
// lowercases what's left, so "## Acceptance Criteria" and "Acceptance
// Criteria:" both match the same section key.
func normalizeHeader(line string) string {
	line = strings.TrimLeft(line, "#")
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ":")
	return strings.ToLower(line)
}

func bulletItem(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}
