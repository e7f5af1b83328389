// Package resolvecmd derives canonical build/test/lint/typecheck/migrate/
// start commands from a repo snapshot, the way a human maintainer would
// read package.json scripts or a pyproject.toml before typing a command.
package resolvecmd

// ResolvedCommands holds one resolved command string per check type the
// check runner knows how to execute, plus a trace of which manifest drove
// the choice.
type ResolvedCommands struct {
	Build        string `json:"build,omitempty"`
	Test         string `json:"test,omitempty"`
	Lint         string `json:"lint,omitempty"`
	Typecheck    string `json:"typecheck,omitempty"`
	Migrate      string `json:"migrate,omitempty"`
	Start        string `json:"start,omitempty"`
	ResolvedFrom string `json:"resolved_from,omitempty"`
}

// Overrides lets a caller replace any derived command verbatim.
type Overrides struct {
	Build     string
	Test      string
	Lint      string
	Typecheck string
	Migrate   string
	Start     string
}

// Snapshot is the minimal view of a repo snapshot that command resolution
// needs. internal/pipeline.RepoSnapshot satisfies this shape; it is
// expressed as its own small struct here so this package has no dependency
// on the pipeline package (resolvecmd is a leaf).
type Snapshot struct {
	LanguagesDetected []string
	PackageManager    string
	Scripts           map[string]string
	TestFramework     string
	BuildTool         string
	MigrationsPresent bool
	HasTypeScript     bool
	HasPrismaSchema   bool
	HasAlembic        bool
}

func has(langs []string, lang string) bool {
	for _, l := range langs {
		if l == lang {
			return true
		}
	}
	return false
}

// Resolve derives ResolvedCommands per the node/python/mixed rules: node
// projects front their scripts with the detected package manager; python
// projects use the pytest/ruff/mypy/build convention; when both are
// present, node drives frontend-shaped checks (lint/typecheck) and python
// drives backend-shaped ones (test), and ResolvedFrom records which
// manifest won. Overrides replace the derived command verbatim, per type.
func Resolve(s Snapshot, overrides *Overrides) ResolvedCommands {
	var rc ResolvedCommands

	isNode := has(s.LanguagesDetected, "javascript") || has(s.LanguagesDetected, "typescript") || s.Scripts != nil
	isPython := has(s.LanguagesDetected, "python")

	switch {
	case isNode && isPython:
		rc = resolveMixed(s)
	case isNode:
		rc = resolveNode(s)
	case isPython:
		rc = resolvePython(s)
	}

	if s.MigrationsPresent {
		switch {
		case s.HasPrismaSchema:
			rc.Migrate = "prisma migrate deploy"
		case s.HasAlembic:
			rc.Migrate = "alembic upgrade head"
		}
	}

	applyOverrides(&rc, overrides)
	return rc
}

func runner(pm string) string {
	switch pm {
	case "pnpm":
		return "pnpm run"
	case "yarn":
		return "yarn"
	default:
		return "npm run"
	}
}

func resolveNode(s Snapshot) ResolvedCommands {
	run := runner(s.PackageManager)
	rc := ResolvedCommands{ResolvedFrom: "package.json"}
	if _, ok := s.Scripts["build"]; ok {
		rc.Build = run + " build"
	}
	if _, ok := s.Scripts["test"]; ok {
		rc.Test = run + " test"
	}
	if _, ok := s.Scripts["lint"]; ok {
		rc.Lint = run + " lint"
	}
	if _, ok := s.Scripts["typecheck"]; ok {
		rc.Typecheck = run + " typecheck"
	} else if s.HasTypeScript {
		rc.Typecheck = "tsc --noEmit"
	}
	return rc
}

func resolvePython(s Snapshot) ResolvedCommands {
	return ResolvedCommands{
		Test:         "pytest tests/",
		Lint:         "ruff check .",
		Typecheck:    "mypy src/",
		Build:        "python -m build",
		ResolvedFrom: "pyproject.toml",
	}
}

func resolveMixed(s Snapshot) ResolvedCommands {
	node := resolveNode(s)
	python := resolvePython(s)
	return ResolvedCommands{
		Build:        node.Build,
		Test:         python.Test,
		Lint:         node.Lint,
		Typecheck:    node.Typecheck,
		ResolvedFrom: "package.json+pyproject.toml",
	}
}

func applyOverrides(rc *ResolvedCommands, o *Overrides) {
	if o == nil {
		return
	}
	if o.Build != "" {
		rc.Build = o.Build
	}
	if o.Test != "" {
		rc.Test = o.Test
	}
	if o.Lint != "" {
		rc.Lint = o.Lint
	}
	if o.Typecheck != "" {
		rc.Typecheck = o.Typecheck
	}
	if o.Migrate != "" {
		rc.Migrate = o.Migrate
	}
	if o.Start != "" {
		rc.Start = o.Start
	}
}
