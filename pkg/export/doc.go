// Package export writes the card database as a CSV file with a column for
// every attribute any card carries, and optionally as a SQLite database
// with a separate card_labels table for label queries.
package export
