package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	in := []interface{}{
		"chapter_id", "chapter1",
		"access_token", "abc",
		"user_id", "u-1",
		"dangling",
	}
	out := sanitizeKVs(in)
	if len(out) != len(in) {
		t.Fatalf("unexpected length: got=%d want=%d", len(out), len(in))
	}
	if out[1] != "chapter1" {
		t.Fatalf("plain value changed: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("token not redacted: %v", out[3])
	}
	if s, _ := out[5].(string); len(s) != len("hash:")+12 {
		t.Fatalf("user id not hashed: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[6])
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("k", "v").Info("discarded")
	log.Sync()
}
