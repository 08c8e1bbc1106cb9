package service

import (
	"context"
	"fmt"
	"log/slog"

	"tm/domain/projection"
	"tm/domain/taskerr"
)

/*
ReplayFromLog rebuilds the task projection from the first log line.

IMPORTANT:
- This MUST run before any command is validated
- Under SkipInconsistent a bad record is logged and skipped
- A record whose display timestamp is unreadable is applied and logged
*/
func ReplayFromLog(
	ctx context.Context,
	log projection.Source,
	policy projection.Policy,
	logger *slog.Logger,
) (*projection.Projection, error) {
	skipped := 0
	res, err := projection.Replay(ctx, log, projection.Options{
		Policy: policy,
		OnIssue: func(i projection.Issue) {
			if i.Kept {
				logger.Warn("log record has unreadable timestamp",
					"line", i.Line,
					"record", i.Raw,
				)
				return
			}
			skipped++
			logger.Warn("skipping log record",
				"line", i.Line,
				"code", taskerr.RootCode(i.Err),
				"record", i.Raw,
				"err", i.Err,
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("log replay failed: %w", err)
	}

	logger.Debug("log replay completed",
		"lines", res.Lines,
		"applied", res.Applied,
		"skipped", skipped,
		"tasks", res.Projection.Len(),
	)
	return res.Projection, nil
}
