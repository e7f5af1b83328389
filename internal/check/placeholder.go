package check

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// placeholderScanRoots are the source directories the placeholder scan
// walks, relative to the project directory.
var placeholderScanRoots = []string{"src", "app", "pages", "components", "lib"}

// placeholderPatterns flags unfinished work and boilerplate left behind by
// a scaffold or template.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bTODO\b`),
	regexp.MustCompile(`(?i)\bFIXME\b`),
	regexp.MustCompile(`(?i)lorem ipsum`),
	regexp.MustCompile(`(?i)your[ _-]?api[ _-]?key[ _-]?here`),
	regexp.MustCompile(`(?i)replace[ _-]?me`),
}

const allowlistFilename = ".placeholder-allowlist"

// RunPlaceholderScan walks the known source roots under projectDir and
// flags any line matching placeholderPatterns. Paths listed (one per line)
// in <projectDir>/.placeholder-allowlist are exempted.
func RunPlaceholderScan(projectDir string) pipeline.GateCheckResult {
	start := time.Now()
	allow := loadAllowlist(filepath.Join(projectDir, allowlistFilename))

	var hits []string
	for _, root := range placeholderScanRoots {
		rootPath := filepath.Join(projectDir, root)
		info, err := os.Stat(rootPath)
		if err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(projectDir, path)
			if relErr != nil {
				rel = path
			}
			if allow[rel] {
				return nil
			}
			if !isSourceFile(path) {
				return nil
			}
			hits = append(hits, scanFile(path, rel)...)
			return nil
		})
	}

	status := pipeline.CheckStatusPass
	if len(hits) > 0 {
		status = pipeline.CheckStatusFail
	}

	return pipeline.GateCheckResult{
		CheckType:     pipeline.CheckPlaceholderScan,
		Status:        status,
		StderrSummary: summarize(strings.Join(hits, "\n")),
		DurationMs:    time.Since(start).Milliseconds(),
		Timestamp:     start,
	}
}

var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".go": true, ".rb": true, ".java": true,
	".md": true, ".html": true, ".css": true,
}

func isSourceFile(path string) bool {
	return sourceExtensions[filepath.Ext(path)]
}

func scanFile(path, rel string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var hits []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		for _, p := range placeholderPatterns {
			if p.MatchString(line) {
				hits = append(hits, rel+":"+strconv.Itoa(lineNum)+": "+strings.TrimSpace(line))
				break
			}
		}
	}
	return hits
}

func loadAllowlist(path string) map[string]bool {
	allow := make(map[string]bool)
	f, err := os.Open(path)
	if err != nil {
		return allow
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		allow[line] = true
	}
	return allow
}
