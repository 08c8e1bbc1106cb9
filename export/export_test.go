package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"tm/domain/task"
)

var tasks = []task.Task{
	{Name: "A", Size: task.S, Description: "docs", HasDescription: true, Accumulated: 40},
	{Name: "B", Active: true, StartTime: 100, Accumulated: 5},
}

func TestRecords(t *testing.T) {
	recs := Records(tasks, 130)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Size != "S" || recs[0].ElapsedSeconds != 40 {
		t.Errorf("unexpected A %+v", recs[0])
	}
	if recs[1].Size != "" || !recs[1].Active || recs[1].ElapsedSeconds != 35 {
		t.Errorf("unexpected B %+v", recs[1])
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONEncoder{}).Encode(&buf, Records(tasks, 130)); err != nil {
		t.Fatal(err)
	}
	var got []Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].Name != "B" || got[1].ElapsedSeconds != 35 {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestProtoJSONEncoder(t *testing.T) {
	enc, err := ForFormat("protojson")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, Records(tasks, 130)); err != nil {
		t.Fatal(err)
	}

	var list structpb.ListValue
	if err := protojson.Unmarshal(buf.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(list.Values))
	}
	a := list.Values[0].GetStructValue().AsMap()
	if a["name"] != "A" || a["elapsed_seconds"] != float64(40) {
		t.Fatalf("unexpected first entry %v", a)
	}
}

func TestForFormat_Unknown(t *testing.T) {
	if _, err := ForFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
