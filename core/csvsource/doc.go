// Package csvsource turns CSV streams into reconcile.RowSource values.
//
// Records are decoded one at a time with encoding/csv, so a file is never
// held in memory by the reader itself. Gzip input (.csv.gz) is detected by
// its magic bytes and decompressed on the fly. A leading UTF-8 byte order
// mark is dropped and an optional header line is consumed before the first
// row.
//
// # Usage
//
//	src, err := csvsource.New(file, csvsource.Options{Delimiter: ';', HasHeader: true})
//	if err != nil {
//	    return err
//	}
//	result, err := reconciler.Reconcile(ctx, src)
package csvsource
