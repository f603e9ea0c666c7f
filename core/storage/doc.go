// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so CSV sources can be read from, and run
// reports written to, AWS S3 or a self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider, making storage
// interactions mockable in unit tests (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the bucket on first start.
//   - ListKeys: lists objects under a prefix, filtered by extension.
//   - PutJSON: uploads a JSON document.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	sources, err := storage.ListKeys(ctx, client, cfg.Storage.Bucket, "imports/", ".csv")
package storage
