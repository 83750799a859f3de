// Package storage writes output artifacts without ever leaving a
// half-written file behind.
//
// Every writer in tagscrape (checkpoint, CSV export, sample, tag list)
// goes through WriteFileAtomic: data is streamed into a temporary file in
// the destination directory, synced, and renamed over the target.
//
//	err := storage.WriteFileAtomic("data/mtg_cards_database.csv", func(w io.Writer) error {
//	    return export.WriteCSV(w, records)
//	})
package storage
