package storage

import "context"

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// UploadResult identifies a stored asset: the durable public URL persisted on
// the book record and the object key used for later deletion.
type UploadResult struct {
	URL string
	Key string
}

// Service hosts image assets in remote object storage.
type Service interface {
	Upload(ctx context.Context, payload string, opts UploadOptions) (UploadResult, error)
	Delete(ctx context.Context, bucket, key string) error
	// KeyFromURL reports whether the URL was produced by this store for the
	// given bucket and, if so, extracts the object key.
	KeyFromURL(rawURL, bucket string) (string, bool)
}
