// Package export writes the replayed task list in machine-readable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"tm/domain/task"
)

// Record is the exported view of one task. Elapsed is live for active tasks.
type Record struct {
	Name           string `json:"name"`
	Size           string `json:"size,omitempty"`
	Description    string `json:"description,omitempty"`
	Active         bool   `json:"active"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

// Records converts tasks, keeping their order.
func Records(tasks []task.Task, now int64) []Record {
	out := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Record{
			Name:           t.Name,
			Size:           t.Size.String(),
			Description:    t.Description,
			Active:         t.Active,
			ElapsedSeconds: t.Elapsed(now),
		})
	}
	return out
}

type Encoder interface {
	Encode(w io.Writer, recs []Record) error
}

// ---------- JSON ----------

type JSONEncoder struct{}

func (JSONEncoder) Encode(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// ---------- Protobuf JSON ----------

// ProtoJSONEncoder writes a google.protobuf.ListValue of Structs.
type ProtoJSONEncoder struct{}

func (ProtoJSONEncoder) Encode(w io.Writer, recs []Record) error {
	items := make([]any, 0, len(recs))
	for _, r := range recs {
		items = append(items, map[string]any{
			"name":            r.Name,
			"size":            r.Size,
			"description":     r.Description,
			"active":          r.Active,
			"elapsed_seconds": r.ElapsedSeconds,
		})
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return fmt.Errorf("export: build list: %w", err)
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(list)
	if err != nil {
		return fmt.Errorf("export: marshal: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// ForFormat picks an encoder by name: "json" or "protojson".
func ForFormat(format string) (Encoder, error) {
	switch format {
	case "", "json":
		return JSONEncoder{}, nil
	case "protojson":
		return ProtoJSONEncoder{}, nil
	}
	return nil, fmt.Errorf("export: unknown format %q", format)
}
