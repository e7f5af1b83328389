package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateDetectsNodeProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{
		"scripts": {"build": "tsc", "test": "jest", "lint": "eslint ."},
		"devDependencies": {"jest": "^29.0.0", "vite": "^5.0.0"}
	}`)
	writeFile(t, filepath.Join(dir, "index.ts"), "export const x = 1\n")
	writeFile(t, filepath.Join(dir, "package-lock.json"), "{}")

	snap, err := Generate(dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if snap.PackageManager != "npm" {
		t.Errorf("expected npm package manager, got %q", snap.PackageManager)
	}
	if !snap.HasTypeScript {
		t.Error("expected HasTypeScript true")
	}
	if snap.TestFramework != "jest" {
		t.Errorf("expected jest test framework, got %q", snap.TestFramework)
	}
	if snap.Scripts["build"] != "tsc" {
		t.Errorf("expected build script to be captured, got %+v", snap.Scripts)
	}
}

func TestGenerateDetectsMigrations(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "prisma"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "prisma", "schema.prisma"), "datasource db {}\n")

	snap, err := Generate(dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !snap.MigrationsPresent || !snap.HasPrismaSchema {
		t.Errorf("expected prisma migrations detected, got %+v", snap)
	}
}

func TestGenerateDetectsEnvFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.example"), "KEY=\n")

	snap, err := Generate(dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(snap.EnvFiles) != 1 || snap.EnvFiles[0] != ".env.example" {
		t.Errorf("expected .env.example detected, got %v", snap.EnvFiles)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
