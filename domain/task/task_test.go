package task

import (
	"testing"

	"tm/domain/taskerr"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		token string
		want  Size
		ok    bool
	}{
		{"S", S, true},
		{"M", M, true},
		{"L", L, true},
		{"XL", XL, true},
		{"xl", Unset, false},
		{"Z", Unset, false},
		{"", Unset, false},
	}
	for _, c := range cases {
		got, err := ParseSize(c.token)
		if c.ok && err != nil {
			t.Errorf("ParseSize(%q): unexpected error %v", c.token, err)
			continue
		}
		if !c.ok {
			if !taskerr.IsCode(err, taskerr.CodeInvalidSizeToken) {
				t.Errorf("ParseSize(%q): expected invalid size error, got %v", c.token, err)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ParseSize(%q) = %v, want %v", c.token, got, c.want)
		}
		if got.String() != c.token {
			t.Errorf("String() = %q, want %q", got.String(), c.token)
		}
		if !LooksLikeSizeToken(c.token) {
			t.Errorf("LooksLikeSizeToken(%q) = false", c.token)
		}
	}
}

func TestElapsed(t *testing.T) {
	active := Task{Name: "A", Active: true, StartTime: 100, Accumulated: 40}
	if got := active.Elapsed(130); got != 70 {
		t.Fatalf("active elapsed: expected 70, got %d", got)
	}

	stopped := Task{Name: "A", StartTime: 100, Accumulated: 40}
	if got := stopped.Elapsed(1000); got != 40 {
		t.Fatalf("inactive elapsed: expected 40, got %d", got)
	}
}
