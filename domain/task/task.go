package task

import "tm/domain/taskerr"

type Size uint8

const (
	Unset Size = iota
	S
	M
	L
	XL
)

// Sizes lists the size classes in canonical summary order.
var Sizes = []Size{S, M, L, XL}

func (s Size) String() string {
	switch s {
	case S:
		return "S"
	case M:
		return "M"
	case L:
		return "L"
	case XL:
		return "XL"
	default:
		return ""
	}
}

// ParseSize maps a size token to its class. Tokens are case-sensitive.
func ParseSize(token string) (Size, error) {
	switch token {
	case "S":
		return S, nil
	case "M":
		return M, nil
	case "L":
		return L, nil
	case "XL":
		return XL, nil
	}
	return Unset, taskerr.New(taskerr.CodeInvalidSizeToken, "invalid size "+token, "size", token)
}

// LooksLikeSizeToken reports whether word would be read as a size class.
// Task names may not be size tokens, and a describe record whose last word
// is one sets the size instead of keeping the word in the description.
func LooksLikeSizeToken(word string) bool {
	_, err := ParseSize(word)
	return err == nil
}

// Task is the replayed state of one named unit of work.
// Times are epoch seconds.
type Task struct {
	Name           string
	Size           Size
	Description    string
	HasDescription bool

	Active      bool
	StartTime   int64
	Accumulated int64
}

// Elapsed returns total active time, counting the open interval up to now
// while the task is active.
func (t Task) Elapsed(now int64) int64 {
	if t.Active {
		return t.Accumulated + (now - t.StartTime)
	}
	return t.Accumulated
}
