package check

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// RunEnvCheck compares <projectDir>/.env against .env.example. Missing
// .env.example passes trivially. Otherwise every non-comment, non-empty key
// declared in .env.example must be present in .env; an empty value warns
// but still passes, a missing key fails.
func RunEnvCheck(projectDir string) pipeline.GateCheckResult {
	start := time.Now()
	examplePath := filepath.Join(projectDir, ".env.example")
	exampleKeys, err := parseEnvKeys(examplePath)
	if err != nil {
		return pipeline.GateCheckResult{
			CheckType:     pipeline.CheckEnv,
			Status:        pipeline.CheckStatusPass,
			StderrSummary: "no .env.example present",
			DurationMs:    time.Since(start).Milliseconds(),
			Timestamp:     start,
		}
	}

	actual, err := parseEnvValues(filepath.Join(projectDir, ".env"))
	if err != nil {
		return pipeline.GateCheckResult{
			CheckType:     pipeline.CheckEnv,
			Status:        pipeline.CheckStatusFail,
			StderrSummary: ".env.example present but .env is missing",
			DurationMs:    time.Since(start).Milliseconds(),
			Timestamp:     start,
		}
	}

	var missing, empty []string
	for _, key := range exampleKeys {
		val, ok := actual[key]
		if !ok {
			missing = append(missing, key)
		} else if strings.TrimSpace(val) == "" {
			empty = append(empty, key)
		}
	}

	status := pipeline.CheckStatusPass
	var summary string
	if len(missing) > 0 {
		status = pipeline.CheckStatusFail
		summary = fmt.Sprintf("missing keys: %s", strings.Join(missing, ", "))
	} else if len(empty) > 0 {
		summary = fmt.Sprintf("warning: empty values for %s", strings.Join(empty, ", "))
	}

	return pipeline.GateCheckResult{
		CheckType:     pipeline.CheckEnv,
		Status:        status,
		StderrSummary: summary,
		DurationMs:    time.Since(start).Milliseconds(),
		Timestamp:     start,
	}
}

func parseEnvKeys(path string) ([]string, error) {
	values, err := parseEnvValues(path)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return keys, nil
}

func parseEnvValues(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return values, nil
}
