// Package reconcile synchronises a table with a bulk external dataset.
//
// Incoming rows (positional string fields, usually decoded from CSV) are
// matched against persisted rows by derived keys. Each match is classified as
// changed or unchanged, changed rows are updated in place, and rows with no
// persisted counterpart are handed to a pluggable Importer.
//
// # Architecture
//
// The package consists of three main components:
//
// 1. Reconciler: re-indexes all input rows by key, streams the table once and
// removes every matched key from the pending set. Whatever is left after the
// stream is exhausted is new.
//
// 2. Importer: OneByOne saves one validated record at a time and checks
// uniqueness against the table first. Bulk builds value tuples, removes
// duplicates on the unique attributes and sends one multi-row insert per chunk.
//
// 3. Batch engine: Deduplicate, Chunk and DedupAndChunk.
//
// All persistence goes through the Store capability interface. The table is
// never loaded into memory; StreamRows hands rows to a callback one at a time.
//
// # Usage Example
//
//	cfg := reconcile.Config{
//	    Table:  "users",
//	    Fields: []reconcile.FieldConfig{
//	        {Attribute: "email", Value: reconcile.Column(0), Unique: true},
//	        {Attribute: "name", Value: reconcile.Column(1)},
//	    },
//	    CSVKey: func(r reconcile.Row) string { return r.Get(0) },
//	    RowKey: func(p reconcile.PersistedRow) string { return p.String("email") },
//	}
//
//	importer, _ := reconcile.NewOneByOne(cfg, store)
//	r, _ := reconcile.NewReconciler(cfg, store, importer)
//	result, err := r.Reconcile(ctx, source)
//
// # Collisions
//
// When two input rows derive the same key the later row replaces the earlier
// one by default (LastWriteWins). The same policy applies to rows sharing a
// composite unique key in bulk mode. Two persisted rows deriving the same key
// is a precondition violation and is not detected.
package reconcile
