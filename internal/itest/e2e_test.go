//go:build integration

package itest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const mergedSRT = "1\n00:00:00,000 --> 00:00:00,900\n안녕하세요\n"

func TestE2E(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	cfg := storageConfig(t)

	// Process a fragmented file end to end.
	input := writeSRT(t, sampleSRT)
	res := runSubmerge(t, repoRoot, []string{"--config", cfg, "process", input, "--basic-merge", "--quiet"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("process failed: %s", res.output)
	}
	merged := strings.TrimSuffix(input, ".srt") + ".merged.srt"
	raw, err := os.ReadFile(merged)
	if err != nil {
		t.Fatalf("read merged output: %v", err)
	}
	if string(raw) != mergedSRT {
		t.Fatalf("unexpected merged output:\n%s", raw)
	}

	// Same run as ASS.
	res = runSubmerge(t, repoRoot, []string{"--config", cfg, "process", input, "--basic-merge", "--quiet", "--format", "ass"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("process --format ass failed: %s", res.output)
	}
	ass, err := os.ReadFile(strings.TrimSuffix(input, ".srt") + ".merged.ass")
	if err != nil {
		t.Fatalf("read ass output: %v", err)
	}
	if !strings.Contains(string(ass), "Dialogue: 0,0:00:00.00,0:00:00.90,Default,,0,0,0,,안녕하세요") {
		t.Fatalf("unexpected ass output:\n%s", ass)
	}

	// Store a preset and process through it.
	res = runSubmerge(t, repoRoot, []string{"--config", cfg, "presets", "add", "merge-all", "--basic-merge"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("presets add failed: %s", res.output)
	}
	second := writeSRT(t, sampleSRT)
	res = runSubmerge(t, repoRoot, []string{"--config", cfg, "process", second, "--preset", "merge-all", "--quiet"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("process --preset failed: %s", res.output)
	}
	raw, err = os.ReadFile(strings.TrimSuffix(second, ".srt") + ".merged.srt")
	if err != nil {
		t.Fatalf("read preset output: %v", err)
	}
	if string(raw) != mergedSRT {
		t.Fatalf("unexpected preset output:\n%s", raw)
	}

	res = runSubmerge(t, repoRoot, []string{"--config", cfg, "presets", "rm", "merge-all"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("presets rm failed: %s", res.output)
	}

	// Sample config lands where --config points.
	initPath := filepath.Join(t.TempDir(), "config.toml")
	res = runSubmerge(t, repoRoot, []string{"--config", initPath, "config", "init"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("config init failed: %s", res.output)
	}
	if _, err := os.Stat(initPath); err != nil {
		t.Fatalf("missing generated config: %v", err)
	}
}
