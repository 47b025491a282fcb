package message

import (
	"bytes"
	"context"
	"testing"
)

func TestMulti_FansOutInOrder(t *testing.T) {
	var buf bytes.Buffer
	rec := &Recorder{}
	var order []string

	m := Multi{
		NotifierFunc(func(_ context.Context, n Notice) { order = append(order, "func") }),
		&WriterNotifier{W: &buf},
		rec,
	}
	m.Notify(context.Background(), Notice{Level: LevelInfo, Text: "User created successfully!"})
	m.Notify(context.Background(), Notice{Level: LevelError, Text: "Error: duplicate email"})

	if buf.String() != "User created successfully!\nError: duplicate email\n" {
		t.Fatalf("writer = %q", buf.String())
	}
	if len(order) != 2 {
		t.Fatalf("func notifier called %d times", len(order))
	}
	last, ok := rec.Last()
	if !ok || last.String() != "error: Error: duplicate email" {
		t.Fatalf("last = %v, %v", last, ok)
	}
	if len(rec.Notices()) != 2 {
		t.Fatalf("recorded %d notices", len(rec.Notices()))
	}
}

func TestRecorder_Empty(t *testing.T) {
	if _, ok := (&Recorder{}).Last(); ok {
		t.Fatalf("empty recorder reported a notice")
	}
	LogNotifier{}.Notify(context.Background(), Notice{Level: LevelError, Text: "x"})
}
