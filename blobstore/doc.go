// Package blobstore abstracts the storage backends that feature-bank
// snapshots are written to and read from.
//
// Backends:
//   - MemoryStore: in-memory, for tests.
//   - LocalStore: local filesystem, memory-mapped reads.
//   - s3.Store: Amazon S3 (subpackage blobstore/s3).
//   - minio.Store: MinIO and S3-compatible object storage (subpackage blobstore/minio).
//
// Blobs are immutable: a snapshot is written once via Create/Put and then
// only read. There is no partial update of an existing blob.
package blobstore
