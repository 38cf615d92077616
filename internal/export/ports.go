// Package export defines the ports for mirroring the ledger to an external
// spreadsheet.
package export

import (
	"context"

	"cantiere/internal/core"
)

// SnapshotWriter rewrites the external mirror with a full ledger snapshot.
// The ledger stays small (hundreds of rows), so every change re-exports
// everything rather than patching individual rows.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, records []core.Record) error
}
