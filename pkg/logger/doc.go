// Package logger builds the log/slog loggers used across the operator.
//
// New applies functional options on top of production defaults (JSON, info
// level, stdout). WithEnvironment switches between production and development
// presets and stamps every record with the unit name. Context extractors add
// per-pass attributes, such as the reconciliation pass ID, at logging time.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "opensearch-0"),
//	    logger.WithContextValue("pass_id", passKey{}),
//	)
//	log.InfoContext(ctx, "roles changed", logger.NodeName(n.Name), logger.Roles(n.Roles))
//
// The attribute helpers keep key names consistent between packages.
package logger
