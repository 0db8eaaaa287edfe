package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/seekstruth-backend/internal/platform/authtoken"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateBundledCatalog(t *testing.T) {
	out, err := run(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok: 3 chapters, 16 questions") {
		t.Fatalf("out=%s", out)
	}
}

func TestValidateReportsBrokenDir(t *testing.T) {
	dir := t.TempDir()
	broken := `[{"id": "c1", "title": "", "questions": []}]`
	if err := os.WriteFile(filepath.Join(dir, "chapters.json"), []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "validate", dir)
	if err == nil || !strings.Contains(err.Error(), "has no questions") || !strings.Contains(err.Error(), "missing title") {
		t.Fatalf("err=%v", err)
	}
}

func TestQuotesSchedule(t *testing.T) {
	out, err := run(t, "quotes")
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if !strings.Contains(out, "chapter1\tquestion 6\tquote 1") {
		t.Fatalf("out=%s", out)
	}
}

func TestCardWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	if _, err := run(t, "card", "1", "-o", path, "--color", "#336699"); err != nil {
		t.Fatalf("card: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := run(t, "card", "nope", "-o", path); err == nil {
		t.Fatalf("expected missing quote error")
	}
}

func TestTokenCommand(t *testing.T) {
	out, err := run(t, "token", "user-9", "--secret", "s3cret")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	sub, err := authtoken.NewSigner("s3cret", 0).Subject(strings.TrimSpace(out))
	if err != nil || sub != "user-9" {
		t.Fatalf("sub=%q err=%v", sub, err)
	}
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := run(t, "token", "user-9"); err == nil {
		t.Fatalf("expected missing secret error")
	}
}
