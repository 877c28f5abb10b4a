package port

import "context"

// FileStorage abstracts attachment byte storage. Implementations return a
// stored path that the workflow records as the attachment reference.
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
}
