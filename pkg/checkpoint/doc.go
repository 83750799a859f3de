// Package checkpoint saves and restores build progress.
//
// A checkpoint is a single JSON document:
//
//	{
//	  "processed_tags": ["burn", "removal"],
//	  "cards_db": {"<card id>": {"id": "...", "name": "...", "labels": ["burn"]}},
//	  "last_updated": "2024-05-01T12:00:00Z"
//	}
//
// It is rewritten wholesale through a temporary file and a rename, so a
// crash mid-save leaves the previous checkpoint intact.
package checkpoint
