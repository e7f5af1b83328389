// Package skill implements per-role skill definition loading: a built-in
// default merged with an optional project-local override file.
package skill

import "github.com/popeye-dev/popeye/internal/pipeline"

// Definition is the resolved skill a phase handler hands to an executor or
// reviewer for a given role.
type Definition struct {
	Role            pipeline.Role
	Version         int
	RequiredOutputs []string
	Constraints     []string
	AllowedPaths    []string
	ForbiddenPaths  []string
	SystemPrompt    string
}

// defaults are the built-in skill definitions, one per known role. They are
// intentionally terse placeholders: real deployments override them with
// project-local files under the skills directory.
var defaults = map[pipeline.Role]Definition{
	pipeline.RoleDispatcher: {
		Role: pipeline.RoleDispatcher, Version: 1,
		SystemPrompt: "Coordinate phase handoffs and keep scope within the current phase's contract.",
	},
	pipeline.RoleArchitect: {
		Role: pipeline.RoleArchitect, Version: 1,
		RequiredOutputs: []string{"architecture document"},
		SystemPrompt:    "Design the system architecture from the approved master plan and repo snapshot.",
	},
	pipeline.RoleDBExpert: {
		Role: pipeline.RoleDBExpert, Version: 1,
		AllowedPaths:   []string{"migrations/", "schema/"},
		ForbiddenPaths: []string{"web/", "frontend/", "site/"},
		SystemPrompt:   "Own schema and migration design; flag destructive migrations as blocking.",
	},
	pipeline.RoleBackendProgrammer: {
		Role: pipeline.RoleBackendProgrammer, Version: 1,
		AllowedPaths:   []string{"server/", "api/", "internal/", "backend/"},
		ForbiddenPaths: []string{"web/", "frontend/", "site/"},
		SystemPrompt:   "Implement backend tasks from the current role plan within declared path constraints.",
	},
	pipeline.RoleFrontendProgrammer: {
		Role: pipeline.RoleFrontendProgrammer, Version: 1,
		AllowedPaths:   []string{"web/", "frontend/", "src/"},
		ForbiddenPaths: []string{"server/", "internal/", "migrations/"},
		SystemPrompt:   "Implement frontend tasks from the current role plan within declared path constraints.",
	},
	pipeline.RoleWebsiteProgrammer: {
		Role: pipeline.RoleWebsiteProgrammer, Version: 1,
		AllowedPaths:   []string{"site/", "marketing/", "public/"},
		ForbiddenPaths: []string{"server/", "internal/", "migrations/"},
		SystemPrompt:   "Implement marketing/website surface tasks within declared path constraints.",
	},
	pipeline.RoleQATester: {
		Role: pipeline.RoleQATester, Version: 1,
		RequiredOutputs: []string{"qa_validation summary"},
		SystemPrompt:    "Exercise the resolved test command and summarize coverage gaps.",
	},
	pipeline.RoleReviewer: {
		Role: pipeline.RoleReviewer, Version: 1,
		RequiredOutputs: []string{"review_decision"},
		SystemPrompt:    "Compare the current snapshot against the role-plan snapshot and flag drift.",
	},
	pipeline.RoleArbitrator: {
		Role: pipeline.RoleArbitrator, Version: 1,
		SystemPrompt: "Read the full vote set and render a final, reasoned verdict.",
	},
	pipeline.RoleDebugger: {
		Role: pipeline.RoleDebugger, Version: 1,
		RequiredOutputs: []string{"rca_report"},
		SystemPrompt:    "Diagnose the failed phase and produce a root-cause-analysis packet with a rewind target.",
	},
	pipeline.RoleAuditor: {
		Role: pipeline.RoleAuditor, Version: 1,
		RequiredOutputs: []string{"audit_report"},
		Constraints:     []string{"classify every finding with a severity"},
		SystemPrompt:    "Audit the implementation for security, correctness, and architectural drift.",
	},
	pipeline.RoleJournalist: {
		Role: pipeline.RoleJournalist, Version: 1,
		SystemPrompt: "Record a plain-language trace of what happened this phase for the journal.",
	},
	pipeline.RoleReleaseManager: {
		Role: pipeline.RoleReleaseManager, Version: 1,
		RequiredOutputs: []string{"release_notes", "deployment", "rollback"},
		SystemPrompt:    "Produce release artifacts once the production gate has passed.",
	},
	pipeline.RoleMarketingExpert: {
		Role: pipeline.RoleMarketingExpert, Version: 1,
		SystemPrompt: "Draft marketing-facing copy consistent with the approved master plan.",
	},
	pipeline.RoleSocialExpert: {
		Role: pipeline.RoleSocialExpert, Version: 1,
		SystemPrompt: "Draft social-facing copy consistent with the approved master plan.",
	},
	pipeline.RoleUIUXSpecialist: {
		Role: pipeline.RoleUIUXSpecialist, Version: 1,
		SystemPrompt: "Review interaction and layout decisions against the architecture document.",
	},
}

// DefaultFor returns the built-in default skill for role. Unknown roles
// return the zero Definition.
func DefaultFor(role pipeline.Role) Definition {
	return defaults[role]
}
