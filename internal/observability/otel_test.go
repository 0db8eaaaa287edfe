package observability

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

func TestParseHeaders(t *testing.T) {
	cases := []struct {
		raw  string
		want map[string]string
	}{
		{"", nil},
		{"api-key=abc", map[string]string{"api-key": "abc"}},
		{" a = 1 , b=2,broken, =x,c=", map[string]string{"a": "1", "b": "2"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, ParseHeaders(tc.raw)); diff != "" {
			t.Fatalf("ParseHeaders(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{0: 0.1, -1: 0.1, 0.5: 0.5, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v)=%v want %v", in, got, want)
		}
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), OtelConfig{})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
