package pipeline

// Role is one of the 16 named roles a skill definition is keyed by.
type Role string

const (
	RoleDispatcher         Role = "DISPATCHER"
	RoleArchitect          Role = "ARCHITECT"
	RoleDBExpert           Role = "DB_EXPERT"
	RoleBackendProgrammer  Role = "BACKEND_PROGRAMMER"
	RoleFrontendProgrammer Role = "FRONTEND_PROGRAMMER"
	RoleWebsiteProgrammer  Role = "WEBSITE_PROGRAMMER"
	RoleQATester           Role = "QA_TESTER"
	RoleReviewer           Role = "REVIEWER"
	RoleArbitrator         Role = "ARBITRATOR"
	RoleDebugger           Role = "DEBUGGER"
	RoleAuditor            Role = "AUDITOR"
	RoleJournalist         Role = "JOURNALIST"
	RoleReleaseManager     Role = "RELEASE_MANAGER"
	RoleMarketingExpert    Role = "MARKETING_EXPERT"
	RoleSocialExpert       Role = "SOCIAL_EXPERT"
	RoleUIUXSpecialist     Role = "UI_UX_SPECIALIST"
)

// AllRoles returns every role tag in declaration order.
func AllRoles() []Role {
	return []Role{
		RoleDispatcher, RoleArchitect, RoleDBExpert, RoleBackendProgrammer,
		RoleFrontendProgrammer, RoleWebsiteProgrammer, RoleQATester, RoleReviewer,
		RoleArbitrator, RoleDebugger, RoleAuditor, RoleJournalist,
		RoleReleaseManager, RoleMarketingExpert, RoleSocialExpert, RoleUIUXSpecialist,
	}
}

// ValidRole reports whether r is one of the 16 closed role names.
func ValidRole(r Role) bool {
	for _, known := range AllRoles() {
		if known == r {
			return true
		}
	}
	return false
}
