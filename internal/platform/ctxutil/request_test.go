package ctxutil

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogFields(t *testing.T) {
	ctx := context.Background()
	if got := LogFields(ctx); len(got) != 0 {
		t.Fatalf("empty ctx fields = %v", got)
	}

	ctx = WithTrace(ctx, Trace{ID: "t-1"})
	ctx = WithRequestData(ctx, &RequestData{UserID: "anonymous", Anonymous: true})
	want := []any{"trace_id", "t-1", "user_id", "anonymous", "anonymous", true}
	if diff := cmp.Diff(want, LogFields(ctx)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if UserID(ctx) != "anonymous" {
		t.Fatalf("UserID = %q", UserID(ctx))
	}
}
