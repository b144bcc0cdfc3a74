// Package media uploads user-submitted images to an S3-compatible
// bucket and hands back publicly reachable URLs.
package media

import "context"

// Store persists a local file and returns the public URL it will be
// served from. Implementations must not mutate or delete the local
// file.
type Store interface {
	Store(ctx context.Context, localPath string) (string, error)
}
