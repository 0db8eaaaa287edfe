package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("ENVUTIL_STR", "  hello ")
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "forty-two")
	t.Setenv("ENVUTIL_BOOL", "off")
	t.Setenv("ENVUTIL_DUR", "90")
	t.Setenv("ENVUTIL_DUR2", "1m30s")

	if got := String("ENVUTIL_STR", "x"); got != "hello" {
		t.Fatalf("String: got=%q", got)
	}
	if got := String("ENVUTIL_MISSING", "x"); got != "x" {
		t.Fatalf("String default: got=%q", got)
	}
	if got := Int("ENVUTIL_INT", 0); got != 42 {
		t.Fatalf("Int: got=%d", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got=%d", got)
	}
	if got := Bool("ENVUTIL_BOOL", true); got {
		t.Fatalf("Bool: got=%v", got)
	}
	if got := Bool("ENVUTIL_MISSING", true); !got {
		t.Fatalf("Bool default: got=%v", got)
	}
	if got := Duration("ENVUTIL_DUR", 0); got != 90*time.Second {
		t.Fatalf("Duration seconds: got=%v", got)
	}
	if got := Duration("ENVUTIL_DUR2", 0); got != 90*time.Second {
		t.Fatalf("Duration string: got=%v", got)
	}
}

func TestFloatAndList(t *testing.T) {
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	t.Setenv("ENVUTIL_BAD_FLOAT", "quarter")
	t.Setenv("ENVUTIL_LIST", " a, ,b ,c")
	t.Setenv("ENVUTIL_EMPTY_LIST", " , ")

	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got=%v", got)
	}
	if got := Float("ENVUTIL_BAD_FLOAT", 1); got != 1 {
		t.Fatalf("Float fallback: got=%v", got)
	}
	got := List("ENVUTIL_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("List: got=%q", got)
	}
	if got := List("ENVUTIL_EMPTY_LIST", []string{"d"}); len(got) != 1 || got[0] != "d" {
		t.Fatalf("List default: got=%q", got)
	}
}
