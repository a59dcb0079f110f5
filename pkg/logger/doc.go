// Package logger builds configured slog loggers and provides typed
// attribute helpers so log keys stay consistent across the codebase.
//
// The factory defaults to JSON output at info level. Helpers such as
// [UserID], [EventKey] and [Error] return empty attributes for nil input,
// which slog silently drops.
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug))
//	log.LogAttrs(ctx, slog.LevelInfo, "Event dispatched",
//		logger.EventKey("mock_submitted"),
//		logger.UserID(userID),
//	)
package logger
