package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hrsync/config"
	"hrsync/worklog"
)

func TestDetectOutputFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"preview.csv":  "csv",
		"preview.XLSX": "excel",
		"preview.xlsm": "excel",
		"preview.out":  "csv",
		"preview":      "csv",
	}
	for path, want := range tests {
		if got := detectOutputFormat(path); got != want {
			t.Fatalf("%s: expected %q, got %q", path, want, got)
		}
	}
}

func exampleConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.ValidateYAMLContent([]byte(config.ExampleYAML()))
	if err != nil {
		t.Fatalf("example config must validate: %v", err)
	}
	return cfg
}

func TestRunLocal(t *testing.T) {
	t.Parallel()

	cfg := exampleConfig(t)
	path := filepath.Join(t.TempDir(), "times.csv")
	content := "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n" +
		"123;7;15.03.2024;09:00;12:00\n" +
		"123;8;15.03.2024;12:00;17:30\n" +
		"124;7;15.03.2024;09:00;10:00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	result, err := runLocal(cfg, path, "", "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := result.Batch.Resolved
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if got := countPersons(entries); got != 2 {
		t.Fatalf("expected 2 persons, got %d", got)
	}
	if got := countProjects(entries); got != 2 {
		t.Fatalf("expected 2 projects, got %d", got)
	}
	// 09:00 Europe/Berlin in March is 08:00 UTC.
	if got := entries[0].Begin.Hour(); got != 8 {
		t.Fatalf("expected begin hour 8 UTC, got %d", got)
	}

	if _, err := runLocal(cfg, path, "", "", "", "UTC"); err != nil {
		t.Fatalf("timezone override: %v", err)
	}
	if _, err := runLocal(cfg, path, "", "bogus", "", ""); err == nil {
		t.Fatalf("expected invalid mode to fail")
	}
}

func TestRunLocalReportsOverlap(t *testing.T) {
	t.Parallel()

	cfg := exampleConfig(t)
	path := filepath.Join(t.TempDir(), "times.csv")
	content := "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n" +
		"123;7;15.03.2024;09:00;12:00\n" +
		"123;8;15.03.2024;11:00;13:00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := runLocal(cfg, path, "", "", "", "")
	var overlap *worklog.OverlappingEntriesError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlappingEntriesError, got %v", err)
	}
}

func TestCountProjectsByNameWhenUnresolved(t *testing.T) {
	t.Parallel()

	entries := []worklog.ResolvedEntry{
		{PersonNumber: "1", ProjectName: "Website Relaunch"},
		{PersonNumber: "2", ProjectName: "Website Relaunch"},
		{PersonNumber: "2", ProjectName: "Büroumbau"},
	}
	if got := countProjects(entries); got != 2 {
		t.Fatalf("expected 2 projects, got %d", got)
	}
}

func TestPrintConfigMasksSecrets(t *testing.T) {
	t.Parallel()

	cfg := exampleConfig(t)
	cfg.HRworks.AccessKey = "AKIA-1234567890"
	cfg.HRworks.SecretAccessKey = "short"

	var out bytes.Buffer
	printConfig(&out, cfg)
	text := out.String()

	if strings.Contains(text, "AKIA-1234567890") || strings.Contains(text, "short") {
		t.Fatalf("secrets must not be printed:\n%s", text)
	}
	for _, want := range []string{
		"hrworks.base_url: https://api.hrworks.de/v2",
		"hrworks.access_key: ********7890",
		"hrworks.secret_access_key: ********",
		"import.timezone: Europe/Berlin",
		"log.level: info",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	if got := maskSecret(""); got != "(not set)" {
		t.Fatalf("unexpected mask for empty value: %q", got)
	}
	if got := maskSecret("abcdefghij"); got != "********ghij" {
		t.Fatalf("unexpected mask: %q", got)
	}
}
