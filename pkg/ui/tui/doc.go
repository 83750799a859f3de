// Package tui is the full screen dashboard shown by "tagscrape build --tui".
//
// It renders build statistics, the tag being fetched, recently finished
// tags and log lines. Pressing q asks the build to stop; the dashboard
// closes once the engine has saved its checkpoint and reported back
// through Done.
package tui
