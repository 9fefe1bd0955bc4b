package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Unit records the operator unit name under the key "unit".
func Unit(name string) slog.Attr {
	return slog.String("unit", name)
}

// NodeName records a cluster node name under the key "node".
func NodeName(name string) slog.Attr {
	return slog.String("node", name)
}

// Roles records a role set under the key "roles". Any fmt.Stringer works,
// so topology.Roles logs as its tag list.
func Roles(roles fmt.Stringer) slog.Attr {
	if roles == nil {
		return slog.Attr{}
	}
	return slog.String("roles", roles.String())
}

// Indices records index names under the key "indices".
func Indices(names []string) slog.Attr {
	return slog.Any("indices", names)
}

// PassID records the reconciliation pass identifier under the key "pass_id".
func PassID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("pass_id", id)
}

// RetryCount records the retry count under the key "retry_count".
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
