package pipeline

import "time"

// RepoSnapshot is a structured description of the project tree at a point
// in time, used for drift detection in REVIEW and for command derivation.
type RepoSnapshot struct {
	SnapshotID        string    `json:"snapshot_id"`
	Timestamp         time.Time `json:"timestamp"`
	TreeSummary       string    `json:"tree_summary"`
	ConfigFiles       []string  `json:"config_files"`
	LanguagesDetected []string  `json:"languages_detected"`
	PackageManager    string    `json:"package_manager,omitempty"`
	Scripts           map[string]string `json:"scripts,omitempty"`
	TestFramework     string    `json:"test_framework,omitempty"`
	BuildTool         string    `json:"build_tool,omitempty"`
	EnvFiles          []string  `json:"env_files"`
	MigrationsPresent bool      `json:"migrations_present"`
	PortsEntrypoints  []string  `json:"ports_entrypoints"`
	TotalFiles        int       `json:"total_files"`
	TotalLines        int       `json:"total_lines"`

	// HasTypeScript, HasPrismaSchema, and HasAlembic are detection flags the
	// command resolver reads; they are not part of the spec's RepoSnapshot
	// field list but are cheap to carry alongside it rather than re-walking
	// the tree a second time.
	HasTypeScript   bool `json:"has_typescript,omitempty"`
	HasPrismaSchema bool `json:"has_prisma_schema,omitempty"`
	HasAlembic      bool `json:"has_alembic,omitempty"`
}
