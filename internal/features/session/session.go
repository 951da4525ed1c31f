package session

import "context"

// State is the dialog position of one user: the named step plus the values
// collected so far.
type State struct {
	Name string            `json:"name"`
	Data map[string]string `json:"data,omitempty"`
}

// Store keeps dialog state keyed by user id. Get returns nil for users with
// no active dialog.
type Store interface {
	Get(ctx context.Context, userID int64) (*State, error)
	Set(ctx context.Context, userID int64, state *State) error
	Clear(ctx context.Context, userID int64) error
}
