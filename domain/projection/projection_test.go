package projection

import (
	"context"
	"reflect"
	"testing"

	"tm/domain/task"
	"tm/domain/taskerr"
)

type lines []string

func (l lines) ReadAll(_ context.Context, fn func(string) error) error {
	for _, line := range l {
		if err := fn(line); err != nil {
			return err
		}
	}
	return nil
}

func stamped(bodies ...string) lines {
	out := make(lines, len(bodies))
	for i, b := range bodies {
		out[i] = "[01/02/2024-10:00:00] " + b
	}
	return out
}

func replay(t *testing.T, src lines) Result {
	t.Helper()
	res, err := Replay(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	return res
}

func mustLookup(t *testing.T, p *Projection, name string) task.Task {
	t.Helper()
	tk, ok := p.Lookup(name)
	if !ok {
		t.Fatalf("task %s missing", name)
	}
	return tk
}

func TestReplay_Idempotent(t *testing.T) {
	log := stamped(
		"start A 0",
		"describe A write the parser M",
		"stop A 10",
		"start B 5",
		"rename B C",
		"size C XL",
		"stop X 3",
	)

	first := replay(t, log)
	second := replay(t, log)

	if !reflect.DeepEqual(first.Projection, second.Projection) {
		t.Fatalf("replays differ:\n%+v\n%+v", first.Projection.Tasks(), second.Projection.Tasks())
	}
	if first.Applied != 6 || len(first.Issues) != 1 {
		t.Fatalf("expected 6 applied and 1 issue, got %d and %d", first.Applied, len(first.Issues))
	}
}

func TestReplay_ElapsedConservation(t *testing.T) {
	res := replay(t, stamped(
		"start A 100",
		"describe A first pass",
		"stop A 130",
		"size A L",
		"rename A B",
		"start B 200",
		"describe B second pass S",
		"stop B 245",
	))

	b := mustLookup(t, res.Projection, "B")
	if b.Accumulated != 30+45 {
		t.Fatalf("expected 75s accumulated, got %d", b.Accumulated)
	}
	if b.Active {
		t.Fatal("expected B inactive")
	}
	if b.Size != task.S || b.Description != "second pass" {
		t.Fatalf("unexpected attributes size=%v desc=%q", b.Size, b.Description)
	}
}

func TestReplay_RenamePreservesIdentity(t *testing.T) {
	p := replay(t, stamped("start A 0", "stop A 20", "start A 50", "size A M", "describe A docs")).Projection
	before := mustLookup(t, p, "A")

	res := replay(t, stamped("start A 0", "stop A 20", "start A 50", "size A M", "describe A docs", "rename A B"))
	after := mustLookup(t, res.Projection, "B")

	if res.Projection.Has("A") {
		t.Fatal("old name still present after rename")
	}
	before.Name = "B"
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rename changed attributes:\nbefore %+v\nafter  %+v", before, after)
	}
	if !res.Projection.IsActive("B") {
		t.Fatal("expected renamed task to stay active")
	}
}

func TestReplay_RenameOntoExistingReplaces(t *testing.T) {
	p := replay(t, stamped("start A 0", "stop A 5", "start B 0", "stop B 50", "rename A B")).Projection

	if p.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", p.Len())
	}
	if b := mustLookup(t, p, "B"); b.Accumulated != 5 {
		t.Fatalf("expected B to carry A's 5s, got %d", b.Accumulated)
	}
}

func TestReplay_DeleteThenRecreate(t *testing.T) {
	p := replay(t, stamped(
		"start A 0",
		"describe A old work L",
		"stop A 40",
		"delete A",
		"start A 100",
	)).Projection

	a := mustLookup(t, p, "A")
	want := task.Task{Name: "A", Active: true, StartTime: 100}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("recreated task carried state: %+v", a)
	}
}

func TestReplay_DescribeTail(t *testing.T) {
	p := replay(t, stamped(
		"start T 0",
		"size T L",
		"describe T foo bar Z",
	)).Projection
	tk := mustLookup(t, p, "T")
	if tk.Description != "foo bar Z" || tk.Size != task.L {
		t.Fatalf("plain tail: desc=%q size=%v", tk.Description, tk.Size)
	}

	p = replay(t, stamped("start T 0", "describe T foo bar M")).Projection
	tk = mustLookup(t, p, "T")
	if tk.Description != "foo bar" || tk.Size != task.M {
		t.Fatalf("size tail: desc=%q size=%v", tk.Description, tk.Size)
	}
}

func TestReplay_DoubleStartIsInert(t *testing.T) {
	res := replay(t, stamped("start A 0", "start A 50", "stop A 80"))

	if len(res.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
	if a := mustLookup(t, res.Projection, "A"); a.Accumulated != 80 {
		t.Fatalf("expected first start to win (80s), got %d", a.Accumulated)
	}
}

func TestReplay_SkipsInconsistentRecords(t *testing.T) {
	var reported []Issue
	res, err := Replay(context.Background(), stamped(
		"stop A 10",
		"start A 0",
		"stop A 10",
		"stop A 20",
		"rename Q R",
		"describe Q text",
		"size Q S",
		"delete Q",
		"wrote summary to output",
	), Options{OnIssue: func(i Issue) { reported = append(reported, i) }})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if len(res.Issues) != 7 || len(reported) != 7 {
		t.Fatalf("expected 7 issues, got %d (reported %d)", len(res.Issues), len(reported))
	}
	if res.Issues[0].Line != 1 || !taskerr.IsCode(res.Issues[0].Err, taskerr.CodeTaskNotFound) {
		t.Errorf("first issue: %+v", res.Issues[0])
	}
	if !taskerr.IsCode(res.Issues[1].Err, taskerr.CodeTaskNotActive) {
		t.Errorf("double stop: %v", res.Issues[1].Err)
	}
	for _, i := range res.Issues {
		if !taskerr.IsCode(i.Err, taskerr.CodeReplayInconsistency) {
			t.Errorf("line %d: expected replay inconsistency, got %v", i.Line, i.Err)
		}
	}
	if !taskerr.IsCode(res.Issues[6].Err, taskerr.CodeCommandNotRecognized) {
		t.Errorf("unknown command: %v", res.Issues[6].Err)
	}
	if a := mustLookup(t, res.Projection, "A"); a.Accumulated != 10 || a.Active {
		t.Fatalf("unexpected A state %+v", a)
	}
}

func TestReplay_AbortPolicy(t *testing.T) {
	res, err := Replay(context.Background(), stamped("start A 0", "stop B 5", "stop A 9"), Options{Policy: AbortOnInconsistency})
	if !taskerr.IsCode(err, taskerr.CodeReplayInconsistency) {
		t.Fatalf("expected replay inconsistency, got %v", err)
	}
	if res.Lines != 2 {
		t.Fatalf("expected replay to stop at line 2, read %d", res.Lines)
	}
	if !res.Projection.IsActive("A") {
		t.Fatal("expected records before the failure to stay applied")
	}
}

func TestReplay_KeepsRecordWithBadStamp(t *testing.T) {
	src := lines{
		"[01/02/2024-10:00:00] start A 0",
		"[not a date] stop A 30",
	}
	res, err := Replay(context.Background(), src, Options{Policy: AbortOnInconsistency})
	if err != nil {
		t.Fatalf("bad stamp must not abort replay: %v", err)
	}
	if res.Applied != 2 || len(res.Issues) != 1 || !res.Issues[0].Kept || res.Issues[0].Line != 2 {
		t.Fatalf("expected one kept issue on line 2, got %d applied, %+v", res.Applied, res.Issues)
	}
	if a := mustLookup(t, res.Projection, "A"); a.Active || a.Accumulated != 30 {
		t.Fatalf("expected stop to apply, got %+v", a)
	}
}

func TestReplay_EmptyLogAndBlankLines(t *testing.T) {
	res := replay(t, nil)
	if res.Projection.Len() != 0 || res.Applied != 0 {
		t.Fatalf("expected empty projection, got %d tasks", res.Projection.Len())
	}

	res = replay(t, lines{"", "[01/02/2024-10:00:00] start A 1", "   "})
	if res.Applied != 1 || len(res.Issues) != 0 {
		t.Fatalf("expected 1 applied and no issues, got %d / %v", res.Applied, res.Issues)
	}
}
