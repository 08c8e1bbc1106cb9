// Package command defines the records appended to the task log and their
// text encoding.
package command

import (
	"strconv"
	"strings"

	"tm/domain/task"
	"tm/domain/taskerr"
)

type Kind string

const (
	KindStart    Kind = "start"
	KindStop     Kind = "stop"
	KindRename   Kind = "rename"
	KindDescribe Kind = "describe"
	KindSize     Kind = "size"
	KindDelete   Kind = "delete"
)

// Kinds lists every record kind.
var Kinds = []Kind{KindStart, KindStop, KindRename, KindDescribe, KindSize, KindDelete}

// ParseKind resolves a command name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", taskerr.New(taskerr.CodeCommandNotRecognized, "invalid command "+name, "command", name)
}

// Command is one immutable log record. The concrete types below are the
// complete set.
type Command interface {
	Kind() Kind
	// Task returns the name the record addresses. For Rename it is the old name.
	Task() string
	args() []string
}

type Start struct {
	Name string
	At   int64
}

type Stop struct {
	Name string
	At   int64
}

type Rename struct {
	From string
	To   string
}

// Describe keeps the raw words so the size-tail rule is applied when the
// record is folded, exactly as it was written.
type Describe struct {
	Name  string
	Words []string
}

type Resize struct {
	Name string
	Size task.Size
}

type Delete struct {
	Name string
}

func (Start) Kind() Kind    { return KindStart }
func (Stop) Kind() Kind     { return KindStop }
func (Rename) Kind() Kind   { return KindRename }
func (Describe) Kind() Kind { return KindDescribe }
func (Resize) Kind() Kind   { return KindSize }
func (Delete) Kind() Kind   { return KindDelete }

func (c Start) Task() string    { return c.Name }
func (c Stop) Task() string     { return c.Name }
func (c Rename) Task() string   { return c.From }
func (c Describe) Task() string { return c.Name }
func (c Resize) Task() string   { return c.Name }
func (c Delete) Task() string   { return c.Name }

func (c Start) args() []string    { return []string{strconv.FormatInt(c.At, 10)} }
func (c Stop) args() []string     { return []string{strconv.FormatInt(c.At, 10)} }
func (c Rename) args() []string   { return []string{c.To} }
func (c Describe) args() []string { return c.Words }
func (c Resize) args() []string   { return []string{c.Size.String()} }
func (c Delete) args() []string   { return nil }

// Split applies the ambiguous-tail rule: a final word that parses as a size
// class sets the size and is dropped from the description.
func (c Describe) Split() (description string, size task.Size, sized bool) {
	n := len(c.Words)
	if n > 0 && task.LooksLikeSizeToken(c.Words[n-1]) {
		size, _ = task.ParseSize(c.Words[n-1])
		return strings.Join(c.Words[:n-1], " "), size, true
	}
	return strings.Join(c.Words, " "), task.Unset, false
}

// Encode renders the record body: kind, task name, then arguments, single
// space separated.
func Encode(c Command) string {
	parts := append([]string{string(c.Kind()), c.Task()}, c.args()...)
	return strings.Join(parts, " ")
}

// Parse reads a record body. Tokens are separated by runs of whitespace.
func Parse(body string) (Command, error) {
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		return nil, taskerr.New(taskerr.CodeInvalidArguments, "empty record")
	}
	kind, err := ParseKind(tokens[0])
	if err != nil {
		return nil, err
	}
	return Build(kind, tokens[1:])
}

// Build constructs a record of the given kind from its argument tokens
// (task name first).
func Build(kind Kind, args []string) (Command, error) {
	switch kind {
	case KindStart, KindStop:
		if err := arity(kind, args, 2, 2); err != nil {
			return nil, err
		}
		at, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return nil, taskerr.Wrap(taskerr.CodeInvalidArguments, err, "invalid time "+args[1], "command", string(kind))
		}
		if kind == KindStart {
			return Start{Name: args[0], At: at}, nil
		}
		return Stop{Name: args[0], At: at}, nil
	case KindRename:
		if err := arity(kind, args, 2, 2); err != nil {
			return nil, err
		}
		return Rename{From: args[0], To: args[1]}, nil
	case KindDescribe:
		if err := arity(kind, args, 2, -1); err != nil {
			return nil, err
		}
		words := make([]string, len(args)-1)
		copy(words, args[1:])
		return Describe{Name: args[0], Words: words}, nil
	case KindSize:
		if err := arity(kind, args, 2, 2); err != nil {
			return nil, err
		}
		size, err := task.ParseSize(args[1])
		if err != nil {
			return nil, err
		}
		return Resize{Name: args[0], Size: size}, nil
	case KindDelete:
		if err := arity(kind, args, 1, 1); err != nil {
			return nil, err
		}
		return Delete{Name: args[0]}, nil
	}
	return nil, taskerr.New(taskerr.CodeCommandNotRecognized, "invalid command "+string(kind), "command", string(kind))
}

// arity checks the argument count; max < 0 means unbounded.
func arity(kind Kind, args []string, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return taskerr.New(taskerr.CodeInvalidArguments,
			"wrong number of arguments for "+string(kind),
			"command", string(kind), "got", strconv.Itoa(len(args)))
	}
	return nil
}
