package auditreport

import "strings"

// validSeverities is the closed set ParseFindings recognizes.
var validSeverities = map[string]Severity{
	"P0": SeverityP0,
	"P1": SeverityP1,
	"P2": SeverityP2,
	"P3": SeverityP3,
}

// ParseFindings extracts findings from the auditor role's free-text output.
// Each finding is one line of the form:
//
//	P0: category: description [blocking]
//
// The trailing "[blocking]" tag is optional; lines that don't start with a
// recognized severity are ignored.
func ParseFindings(output string) []Finding {
	var findings []Finding
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		sev, ok := validSeverities[strings.TrimSpace(parts[0])]
		if !ok {
			continue
		}
		category := strings.TrimSpace(parts[1])
		description := strings.TrimSpace(parts[2])
		lower := strings.ToLower(description)
		blocking := strings.Contains(lower, "[blocking]")
		if idx := strings.Index(lower, "[blocking]"); idx >= 0 {
			description = strings.TrimSpace(description[:idx] + description[idx+len("[blocking]"):])
		}

		findings = append(findings, Finding{
			Severity:    sev,
			Category:    category,
			Description: description,
			Blocking:    blocking,
		})
	}
	return findings
}
