// Package logger provides structured logging for tagscrape.
//
// It wraps zerolog behind a small Logger interface so that packages can
// take a logger as a dependency and tests can swap in NewNopLogger or
// NewTestLogger.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "scraper")
//	log.InfoWithFields("Tag processed", map[string]interface{}{
//	    "tag":   "removal",
//	    "cards": 312,
//	})
//
// Console output is written to stderr. When a log file is configured,
// records are also appended there.
package logger
