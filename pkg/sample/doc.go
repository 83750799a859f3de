// Package sample draws a random subset of an exported card database,
// keeping only the columns useful for model training.
package sample
