// Package ids backs the collision-checked identifier generator with a table
// recording every id ever handed out.
package ids

import "context"

type Repository interface {
	// TryInsert records a candidate id. It returns false (and no error)
	// when the id already exists, so the generator can retry.
	TryInsert(ctx context.Context, id string) (bool, error)
}
