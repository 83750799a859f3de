// Package tags loads and saves the grouped functional tag list that drives a build.
package tags
