package library

import "context"

// RecordStore is the remote document store the library mirrors. Create
// returns the server-assigned document id; SetFavorite writes only the
// favorite field of the matching document.
type RecordStore interface {
	Create(ctx context.Context, record *Record) (string, error)
	SetFavorite(ctx context.Context, ownerID, recordID string, favorite bool) error
	Delete(ctx context.Context, ownerID, recordID string) error
	Watch(ctx context.Context, ownerID string) (Subscription, error)
}

// Subscription is a live, cancellable view of one owner's records. Every
// element on Snapshots carries the full matching set ordered by creation
// time descending; partial sets are never delivered. An element on Errors
// is terminal for the subscription.
type Subscription interface {
	Snapshots() <-chan []Record
	Errors() <-chan error
	Close()
}
