package bag

import "log/slog"

// Reporter logs each distinct problem once. Keys name what went missing,
// such as a sheet ID, so log volume follows distinct problems rather than
// card count.
type Reporter struct {
	log  *slog.Logger
	seen map[string]struct{}
}

func NewReporter(log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{log: log, seen: make(map[string]struct{})}
}

// Warn logs msg unless key was already reported. It returns whether the
// message was logged.
func (r *Reporter) Warn(key, msg string, args ...any) bool {
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	r.log.Warn(msg, args...)
	return true
}

// Len returns the number of distinct problems reported
func (r *Reporter) Len() int {
	return len(r.seen)
}
