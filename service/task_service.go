package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"tm/domain/command"
	"tm/domain/projection"
	"tm/domain/summary"
	"tm/domain/task"
	"tm/domain/taskerr"
	"tm/logging"
)

// Log is the append-only store the service writes to and replays from.
type Log interface {
	Append(ctx context.Context, line string) error
	ReadAll(ctx context.Context, fn func(line string) error) error
}

type Options struct {
	Policy projection.Policy
	Clock  func() time.Time
	Logger *slog.Logger
}

/*
TaskService is the ONLY write entry point into the task log.

It owns the single projection of the process: built once by replaying the
whole log in Open, then kept in step by folding every record right after
it is appended.
*/
type TaskService struct {
	log    Log
	proj   *projection.Projection
	clock  func() time.Time
	logger *slog.Logger
}

// Open replays log and returns a service ready to accept commands.
func Open(ctx context.Context, log Log, opts Options) (*TaskService, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	proj, err := ReplayFromLog(ctx, log, opts.Policy, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &TaskService{
		log:    log,
		proj:   proj,
		clock:  opts.Clock,
		logger: opts.Logger,
	}, nil
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// Execute validates a command against the current projection, appends it
// to the log and folds it in. A rejected command never reaches the log.
func (s *TaskService) Execute(ctx context.Context, name string, args []string) (command.Command, error) {
	kind, err := command.ParseKind(name)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	cmd, err := s.prepare(kind, args, now.Unix())
	if err != nil {
		return nil, err
	}

	if err := s.log.Append(ctx, command.FormatLine(now, cmd)); err != nil {
		return nil, fmt.Errorf("append %s: %w", kind, err)
	}

	if err := s.proj.Apply(cmd); err != nil {
		// validated above; the log and projection have diverged
		s.logger.Error("appended record did not apply", "command", command.Encode(cmd), "err", err)
		return cmd, err
	}
	s.logger.Debug("command appended", "command", command.Encode(cmd))
	return cmd, nil
}

func (s *TaskService) prepare(kind command.Kind, args []string, now int64) (command.Command, error) {
	switch kind {
	case command.KindStart:
		if err := arity(kind, args, 1, 1); err != nil {
			return nil, err
		}
		name := args[0]
		if s.proj.IsActive(name) {
			return nil, taskerr.New(taskerr.CodeTaskAlreadyActive, "task "+name+" already active", "task", name)
		}
		if err := validName(name); err != nil {
			return nil, err
		}
		return command.Start{Name: name, At: now}, nil

	case command.KindStop:
		if err := arity(kind, args, 1, 1); err != nil {
			return nil, err
		}
		name := args[0]
		if err := s.requireTask(name); err != nil {
			return nil, err
		}
		if !s.proj.IsActive(name) {
			return nil, taskerr.New(taskerr.CodeTaskNotActive, "no such task active: "+name, "task", name)
		}
		return command.Stop{Name: name, At: now}, nil

	case command.KindRename:
		if err := arity(kind, args, 2, 2); err != nil {
			return nil, err
		}
		from, to := args[0], args[1]
		if err := s.requireTask(from); err != nil {
			return nil, err
		}
		if err := validName(to); err != nil {
			return nil, err
		}
		if s.proj.Has(to) && to != from {
			s.logger.Warn("rename replaces existing task", "from", from, "to", to)
		}
		return command.Rename{From: from, To: to}, nil

	case command.KindDescribe:
		if err := arity(kind, args, 2, -1); err != nil {
			return nil, err
		}
		name := args[0]
		if err := s.requireTask(name); err != nil {
			return nil, err
		}
		words := strings.Fields(strings.Join(args[1:], " "))
		if len(words) == 0 {
			return nil, taskerr.New(taskerr.CodeInvalidArguments, "description is empty", "task", name)
		}
		return command.Describe{Name: name, Words: words}, nil

	case command.KindSize:
		if err := arity(kind, args, 2, 2); err != nil {
			return nil, err
		}
		name := args[0]
		if err := s.requireTask(name); err != nil {
			return nil, err
		}
		size, err := task.ParseSize(args[1])
		if err != nil {
			return nil, err
		}
		return command.Resize{Name: name, Size: size}, nil

	case command.KindDelete:
		if err := arity(kind, args, 1, 1); err != nil {
			return nil, err
		}
		if err := s.requireTask(args[0]); err != nil {
			return nil, err
		}
		return command.Delete{Name: args[0]}, nil
	}
	return nil, taskerr.New(taskerr.CodeCommandNotRecognized, "invalid command "+string(kind), "command", string(kind))
}

func (s *TaskService) requireTask(name string) error {
	if !s.proj.Has(name) {
		return taskerr.New(taskerr.CodeTaskNotFound, "task "+name+" does not exist", "task", name)
	}
	return nil
}

// validName keeps task names to a single token that cannot be read back as
// a size class.
func validName(name string) error {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return taskerr.New(taskerr.CodeInvalidArguments, "invalid task name "+fmt.Sprintf("%q", name), "task", name)
	}
	if task.LooksLikeSizeToken(name) {
		return taskerr.New(taskerr.CodeReservedNameConflict, "invalid name; "+name+" is reserved token", "task", name)
	}
	return nil
}

// arity checks the argument count; max < 0 means unbounded.
func arity(kind command.Kind, args []string, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return taskerr.New(taskerr.CodeInvalidArguments,
			fmt.Sprintf("%s expects %s, got %d", kind, expected(min, max), len(args)),
			"command", string(kind))
	}
	return nil
}

func expected(min, max int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("at least %d arguments", min)
	case min == max && min == 1:
		return "1 argument"
	case min == max:
		return fmt.Sprintf("%d arguments", min)
	}
	return fmt.Sprintf("%d to %d arguments", min, max)
}

//
// ──────────────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────────────
//

func (s *TaskService) IsTaskPresent(name string) bool {
	return s.proj.Has(name)
}

func (s *TaskService) IsTaskActive(name string) bool {
	return s.proj.IsActive(name)
}

func (s *TaskService) CountOfTasksBySize(size task.Size) int {
	return summary.CountBySize(s.proj, size)
}

func (s *TaskService) TaskSummary(name string) (summary.TaskSummary, error) {
	return summary.PerTask(s.proj, name, s.clock().Unix())
}

func (s *TaskService) SizeSummary(size task.Size) (summary.SizeSummary, error) {
	return summary.PerSize(s.proj, size, s.clock().Unix())
}

func (s *TaskService) FullSummary() []summary.SizeSummary {
	return summary.Full(s.proj, s.clock().Unix())
}

// Tasks returns every task ordered by name.
// Caller gets copies; the projection is not exposed.
func (s *TaskService) Tasks() []task.Task {
	return s.proj.Tasks()
}

// Now returns the service clock's current epoch second.
func (s *TaskService) Now() int64 {
	return s.clock().Unix()
}

// Report is the answer to a summary request: one task, or size classes.
type Report struct {
	Task  *summary.TaskSummary
	Sizes []summary.SizeSummary
}

// Summarize resolves "summary [<task>|<size>]": no target reports every
// size class with more than one task, a task name reports that task, a
// size token reports that class.
func (s *TaskService) Summarize(target string) (Report, error) {
	if target == "" {
		return Report{Sizes: s.FullSummary()}, nil
	}
	if s.proj.Has(target) {
		ts, err := s.TaskSummary(target)
		if err != nil {
			return Report{}, err
		}
		return Report{Task: &ts}, nil
	}
	if task.LooksLikeSizeToken(target) {
		size, _ := task.ParseSize(target)
		ss, err := s.SizeSummary(size)
		if err != nil {
			return Report{}, err
		}
		return Report{Sizes: []summary.SizeSummary{ss}}, nil
	}
	return Report{}, taskerr.New(taskerr.CodeTaskNotFound, "no task or size named "+target, "task", target)
}
