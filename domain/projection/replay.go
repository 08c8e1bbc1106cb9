package projection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tm/domain/command"
	"tm/domain/taskerr"
)

// Source yields the raw log lines in write order. Each call starts over
// from the first line.
type Source interface {
	ReadAll(ctx context.Context, fn func(line string) error) error
}

type Policy int

const (
	// SkipInconsistent reports bad records and continues with the next line.
	SkipInconsistent Policy = iota
	// AbortOnInconsistency stops replay at the first bad record.
	AbortOnInconsistency
)

// Options configures replay behavior.
type Options struct {
	Policy  Policy
	OnIssue func(Issue)
}

// Issue is a log line that could not be parsed or folded. Kept issues
// were folded anyway: only the display timestamp was unreadable.
type Issue struct {
	Line int
	Raw  string
	Err  error
	Kept bool
}

// Result captures replay outcomes.
type Result struct {
	Projection *Projection
	Lines      int
	Applied    int
	Issues     []Issue
}

var errAbort = errors.New("replay aborted")

// Replay rebuilds a projection from the first line of src.
func Replay(ctx context.Context, src Source, opts Options) (Result, error) {
	res := Result{Projection: New()}
	var abort error

	err := src.ReadAll(ctx, func(line string) error {
		res.Lines++
		if strings.TrimSpace(line) == "" {
			return nil
		}

		entry, err := fold(res.Projection, line)
		if err == nil {
			res.Applied++
			if !entry.HasStamp() {
				report(&res, opts, Issue{
					Line: res.Lines,
					Raw:  line,
					Err:  taskerr.New(taskerr.CodeInvalidArguments, "invalid timestamp "+entry.Stamp, "line", line),
					Kept: true,
				})
			}
			return nil
		}

		issue := Issue{Line: res.Lines, Raw: line, Err: err}
		report(&res, opts, issue)
		if opts.Policy == AbortOnInconsistency {
			abort = fmt.Errorf("%s: %w", issue.Position(), err)
			return errAbort
		}
		return nil
	})
	if errors.Is(err, errAbort) {
		return res, abort
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

func report(res *Result, opts Options, issue Issue) {
	res.Issues = append(res.Issues, issue)
	if opts.OnIssue != nil {
		opts.OnIssue(issue)
	}
}

func fold(p *Projection, line string) (command.Entry, error) {
	entry, err := command.ParseLine(line)
	if err != nil {
		return entry, taskerr.Wrap(taskerr.CodeReplayInconsistency, err, "malformed record", "line", line)
	}
	return entry, p.Apply(entry.Command)
}

// Position formats the issue location for logs.
func (i Issue) Position() string {
	return "line " + strconv.Itoa(i.Line)
}
