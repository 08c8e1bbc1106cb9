package command

import (
	"strings"
	"time"

	"tm/domain/taskerr"
)

// TimestampLayout is the display timestamp written in front of every log
// line, inside square brackets.
const TimestampLayout = "02/01/2006-15:04:05"

// Entry is one decoded log line.
type Entry struct {
	// Written is zero when Stamp does not parse.
	Written time.Time
	Stamp   string
	Command Command
}

// HasStamp reports whether the display timestamp parsed.
func (e Entry) HasStamp() bool {
	return !e.Written.IsZero()
}

// FormatLine frames a record for the log: "[dd/MM/yyyy-HH:mm:ss] <body>".
// The timestamp is display-only; elapsed math uses the epoch carried by
// start and stop records.
func FormatLine(written time.Time, c Command) string {
	return "[" + written.Local().Format(TimestampLayout) + "] " + Encode(c)
}

// ParseLine decodes a framed log line. A stamp that does not parse still
// yields the record, with Written left zero.
func ParseLine(line string) (Entry, error) {
	stamp, body, err := unframe(line)
	if err != nil {
		return Entry{}, err
	}
	c, err := Parse(body)
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{Stamp: stamp, Command: c}
	if written, err := time.ParseInLocation(TimestampLayout, stamp, time.Local); err == nil {
		entry.Written = written
	}
	return entry, nil
}

func unframe(line string) (stamp, body string, err error) {
	if !strings.HasPrefix(line, "[") {
		return "", "", taskerr.New(taskerr.CodeInvalidArguments, "missing timestamp")
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", "", taskerr.New(taskerr.CodeInvalidArguments, "unterminated timestamp")
	}
	return line[1:end], line[end+1:], nil
}
