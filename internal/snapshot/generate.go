// Package snapshot walks a project tree and produces a RepoSnapshot:
// languages, package manager, scripts, test/build tooling, env files,
// migration presence, and listening ports/entrypoints.
package snapshot

import (
	"bufio"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/popeye-dev/popeye/internal/pipeline"
)

const maxProbeFileSize = 32 * 1024

var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, ".venv": true,
	"__pycache__": true, ".popeye": true, "dist": true, "build": true,
	"docs": true,
}

var configFileNames = []string{
	"package.json", "go.mod", "pyproject.toml", "setup.py", "requirements.txt",
	"Cargo.toml", "tsconfig.json", "Dockerfile", "docker-compose.yml",
	"Makefile", "jest.config.js", "vitest.config.ts", ".eslintrc.json",
}

var extToLanguage = map[string]string{
	".go": "go", ".py": "python", ".js": "javascript", ".jsx": "javascript",
	".ts": "typescript", ".tsx": "typescript", ".rb": "ruby", ".java": "java",
	".rs": "rust",
}

var portPattern = regexp.MustCompile(`(?i)(?:PORT\s*[:=]\s*|EXPOSE\s+|listen\(\s*)(\d{2,5})`)

// Generate walks projectDir and returns a RepoSnapshot describing it.
func Generate(projectDir string) (pipeline.RepoSnapshot, error) {
	snap := pipeline.RepoSnapshot{
		SnapshotID: uuid.New().String(),
		Timestamp:  time.Now(),
		Scripts:    make(map[string]string),
	}

	languages := make(map[string]bool)
	var configFiles []string
	var envFiles []string
	totalFiles, totalLines := 0, 0

	err := filepath.WalkDir(projectDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(projectDir, path)
		if relErr != nil {
			rel = path
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		totalFiles++
		if lang, ok := extToLanguage[filepath.Ext(path)]; ok {
			languages[lang] = true
		}
		name := filepath.Base(path)
		for _, known := range configFileNames {
			if name == known {
				configFiles = append(configFiles, rel)
			}
		}
		if strings.HasPrefix(name, ".env") {
			envFiles = append(envFiles, rel)
		}
		if d.Type().IsRegular() {
			totalLines += countLines(path)
		}
		return nil
	})
	if err != nil {
		return pipeline.RepoSnapshot{}, err
	}

	sort.Strings(configFiles)
	sort.Strings(envFiles)
	snap.ConfigFiles = configFiles
	snap.EnvFiles = envFiles
	snap.TotalFiles = totalFiles
	snap.TotalLines = totalLines

	for lang := range languages {
		snap.LanguagesDetected = append(snap.LanguagesDetected, lang)
	}
	sort.Strings(snap.LanguagesDetected)
	snap.HasTypeScript = languages["typescript"]

	snap.TreeSummary = buildTreeSummary(projectDir)
	if log := gitLog(projectDir); log != "" {
		snap.TreeSummary += "\nrecent commits:\n" + log + "\n"
	}
	snap.PackageManager = detectPackageManager(projectDir)
	detectScriptsAndTooling(projectDir, &snap)
	snap.MigrationsPresent, snap.HasPrismaSchema, snap.HasAlembic = detectMigrations(projectDir)
	snap.PortsEntrypoints = detectPortsAndEntrypoints(projectDir)

	return snap, nil
}

func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		lines++
	}
	return lines
}

func buildTreeSummary(root string) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "(unable to read directory)\n"
	}
	var sb strings.Builder
	for _, e := range entries {
		if skipDirs[e.Name()] {
			continue
		}
		if e.IsDir() {
			sb.WriteString(e.Name() + "/\n")
			continue
		}
		sb.WriteString(e.Name() + "\n")
	}
	return sb.String()
}

func detectPackageManager(root string) string {
	switch {
	case fileExists(filepath.Join(root, "pnpm-lock.yaml")):
		return "pnpm"
	case fileExists(filepath.Join(root, "yarn.lock")):
		return "yarn"
	case fileExists(filepath.Join(root, "package-lock.json")):
		return "npm"
	default:
		return ""
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type packageJSON struct {
	Scripts         map[string]string `json:"scripts"`
	DevDependencies map[string]string `json:"devDependencies"`
	Dependencies    map[string]string `json:"dependencies"`
}

func detectScriptsAndTooling(root string, snap *pipeline.RepoSnapshot) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err == nil {
		var pkg packageJSON
		if json.Unmarshal(data, &pkg) == nil {
			snap.Scripts = pkg.Scripts
			for _, dep := range []string{"jest", "vitest", "mocha"} {
				if _, ok := pkg.DevDependencies[dep]; ok {
					snap.TestFramework = dep
					break
				}
			}
			for _, dep := range []string{"webpack", "vite", "esbuild", "rollup"} {
				if _, ok := pkg.DevDependencies[dep]; ok {
					snap.BuildTool = dep
					break
				}
			}
		}
	}

	if snap.TestFramework == "" && fileExists(filepath.Join(root, "pyproject.toml")) {
		data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
		if err == nil && strings.Contains(string(data), "pytest") {
			snap.TestFramework = "pytest"
		}
	}
	if snap.BuildTool == "" && fileExists(filepath.Join(root, "pyproject.toml")) {
		snap.BuildTool = "setuptools"
	}
}

func detectMigrations(root string) (present bool, hasPrisma bool, hasAlembic bool) {
	if fileExists(filepath.Join(root, "prisma", "schema.prisma")) {
		hasPrisma = true
	}
	if fileExists(filepath.Join(root, "alembic.ini")) {
		hasAlembic = true
	}
	if info, err := os.Stat(filepath.Join(root, "migrations")); err == nil && info.IsDir() {
		present = true
	}
	present = present || hasPrisma || hasAlembic
	return present, hasPrisma, hasAlembic
}

func detectPortsAndEntrypoints(root string) []string {
	var hits []string
	seen := make(map[string]bool)
	probe := func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		content := string(data)
		if len(content) > maxProbeFileSize {
			content = content[:maxProbeFileSize]
		}
		for _, m := range portPattern.FindAllStringSubmatch(content, -1) {
			port := m[1]
			if !seen[port] {
				seen[port] = true
				hits = append(hits, port)
			}
		}
	}
	for _, name := range []string{"Dockerfile", "docker-compose.yml", "main.go", "server.js", "app.py"} {
		probe(filepath.Join(root, name))
	}
	sort.Strings(hits)
	return hits
}

// gitLog captures the last few commits, used to enrich the tree summary
// when the project is under git. Errors (e.g. not a git repo) are silent.
func gitLog(root string) string {
	cmd := exec.Command("git", "log", "--oneline", "-10")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
