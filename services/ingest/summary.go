package ingest

import "fmt"

// Summary is the one line report shown once a run finishes.
func Summary(result Result) string {
	return fmt.Sprintf(
		"Ingestion complete. Inserted %d new items, skipped %d existing items.",
		result.Inserted, result.Skipped,
	)
}
