package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "O103", "o109", "Z999")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, want := range []string{"O103\t1\tPicked", "o109\t4\tClosed", "Z999\t0\tPending (unknown code)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderFromDraftWritesPDF(t *testing.T) {
	dir := t.TempDir()
	draft := filepath.Join(dir, "draft.json")
	if err := os.WriteFile(draft, []byte(`{"dnNumber":"DN-31","quantities":[{"description":"Crate","quantity":2}]}`), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	pdfPath := filepath.Join(dir, "out.pdf")

	out, err := execute(t, "render-dn", "--draft", draft, "--out", pdfPath)
	if err != nil {
		t.Fatalf("render-dn: %v", err)
	}
	if !strings.Contains(out, "wrote "+pdfPath) {
		t.Fatalf("unexpected output %q", out)
	}
	b, err := os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("expected pdf written, err=%v", err)
	}
}

func TestRenderRequiresOneSource(t *testing.T) {
	if _, err := execute(t, "render-dn"); err == nil {
		t.Fatalf("expected error without --draft or --note")
	}
}

func TestMigrateAndSeedUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ctl.db")
	t.Setenv("GODAM_SQLITE_PATH", dbPath)
	t.Setenv("GODAM_SEED_PASSWORD", "Dispatch-2024x")

	if _, err := execute(t, "migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	out, err := execute(t, "seed-user", "--username", "noor", "--role", "dispatcher")
	if err != nil {
		t.Fatalf("seed-user: %v", err)
	}
	if !strings.Contains(out, "seeded dispatcher user (username=noor)") {
		t.Fatalf("unexpected output %q", out)
	}
}
