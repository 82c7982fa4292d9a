package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEmitWithoutDeferDelivers(t *testing.T) {
	rec := &Recorder{}
	Emit(context.Background(), rec, Error("boom"))
	Emit(context.Background(), rec, Success("ok"))
	Emit(context.Background(), nil, Success("dropped"))

	want := []Event{Error("boom"), Success("ok")}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDeferredKeepsLastErrorUntilFlush(t *testing.T) {
	rec := &Recorder{}
	ctx, d := Defer(context.Background())

	Emit(ctx, rec, Error("attempt 1"))
	Emit(ctx, rec, Error("attempt 2"))
	Emit(ctx, rec, Success("not deferred"))

	if diff := cmp.Diff([]Event{Success("not deferred")}, rec.Events()); diff != "" {
		t.Fatalf("before flush (-want +got):\n%s", diff)
	}

	d.Flush()
	d.Flush()
	if diff := cmp.Diff([]Event{Error("attempt 2")}, rec.Errors()); diff != "" {
		t.Errorf("after flush (-want +got):\n%s", diff)
	}
}

func TestDeferredDiscard(t *testing.T) {
	rec := &Recorder{}
	ctx, d := Defer(context.Background())
	Emit(ctx, rec, Error("transient"))
	d.Discard()
	d.Flush()

	if got := rec.Events(); len(got) != 0 {
		t.Errorf("got %v, want no events", got)
	}
}

func TestToastMsg(t *testing.T) {
	ok := ToastMsg(Success("Note created successfully"))
	if ok.IsError || ok.Duration != 2*time.Second {
		t.Errorf("success toast = %+v", ok)
	}
	bad := ToastMsg(Error("unauthorized"))
	if !bad.IsError || bad.Duration != 4*time.Second || bad.Message != "unauthorized" {
		t.Errorf("error toast = %+v", bad)
	}
}

func TestProgramSinkLogsUntilAttached(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := NewProgramSink(logger)

	s.Notify(Error("network error"))
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "network error") {
		t.Errorf("log output = %q", out)
	}
}

func TestRecorderReset(t *testing.T) {
	rec := &Recorder{}
	rec.Notify(Success("a"))
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("reset should clear events")
	}
}
