// Package store defines the contract the ledger facade holds against
// the external row-oriented datastore. The store is schemaless: row 1
// of a partition is whatever header strings have accreted over time,
// and every other row is positional values under those headers.
package store

import "context"

// Row is one data row keyed by the partition's current header texts.
// Values are loosely typed; interpretation belongs to the schema layer.
type Row map[string]any

// Store is the narrow surface the repository facade consumes. Row
// indexes are zero-based over data rows (the header row is not
// addressable). Implementations provide no typing, no schema
// enforcement, and no cross-call atomicity.
type Store interface {
	// Partitions lists the partition names currently present.
	Partitions(ctx context.Context) ([]string, error)

	// CreatePartition creates an empty partition. Creating one that
	// already exists is an error.
	CreatePartition(ctx context.Context, name string) error

	// Headers returns the partition's current header row in column
	// order. A partition with no header row yields an empty slice.
	Headers(ctx context.Context, name string) ([]string, error)

	// AppendHeaders appends header columns after the existing ones.
	AppendHeaders(ctx context.Context, name string, headers []string) error

	// FetchAllRows returns every data row, top to bottom, keyed by the
	// current headers.
	FetchAllRows(ctx context.Context, name string) ([]Row, error)

	// AppendRow appends one positional row after the last data row.
	AppendRow(ctx context.Context, name string, values []any) error

	// OverwriteRow replaces the data row at index with values.
	OverwriteRow(ctx context.Context, name string, index int, values []any) error

	// DeleteRow removes the data row at index; rows below shift up.
	DeleteRow(ctx context.Context, name string, index int) error
}
