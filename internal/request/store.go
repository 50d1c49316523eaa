package request

import (
	"context"

	"github.com/linnemanlabs/go-core/xerrors"
)

// ErrDuplicateID is returned by Insert when the id is already live.
var ErrDuplicateID = xerrors.New("request id already exists")

// Store is the persistence interface for pending requests. Implementations
// must serialize mutation so that two concurrent Delete calls on the same id
// return true exactly once.
type Store interface {
	// Insert adds a request to the live set. Duplicate submissions from the
	// same patient are separate requests; only the id is unique, and an
	// Insert with a live id fails with ErrDuplicateID.
	Insert(ctx context.Context, r *Request) error

	// List returns a snapshot copy of all live requests in no particular
	// order. Ordering is the triage pass's job, not the store's.
	List(ctx context.Context) ([]Request, error)

	// Delete removes the request if present and reports whether it existed.
	// A missing id is "nothing to do", not an error.
	Delete(ctx context.Context, id string) (bool, error)
}
