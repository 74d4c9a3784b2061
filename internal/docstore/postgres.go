package docstore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mangashelf/internal/library"
)

// Store implements library.RecordStore on postgres, with a redis pub/sub
// change feed standing in for the remote store's push channel. Every
// mutation publishes a ping on the owner's channel; each subscriber
// answers a ping with one consistent re-read of the full matching set.
type Store struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewStore(db *gorm.DB, rdb *redis.Client) *Store {
	return &Store{db: db, rdb: rdb}
}

func channelFor(ownerID string) string {
	return "library:changed:" + ownerID
}

// Create inserts the record under a freshly assigned document id.
func (s *Store) Create(ctx context.Context, record *library.Record) (string, error) {
	record.ID = uuid.New().String()

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", writeError("create record", err)
	}

	s.publish(ctx, record.OwnerID)
	return record.ID, nil
}

// SetFavorite writes only the favorite column of the matching document.
func (s *Store) SetFavorite(ctx context.Context, ownerID, recordID string, favorite bool) error {
	result := s.db.WithContext(ctx).
		Model(&library.Record{}).
		Where("id = ? AND owner_id = ?", recordID, ownerID).
		Update("is_favorite", favorite)

	if result.Error != nil {
		return writeError("set favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return library.ErrNotFound
	}

	s.publish(ctx, ownerID)
	return nil
}

func (s *Store) Delete(ctx context.Context, ownerID, recordID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", recordID, ownerID).
		Delete(&library.Record{})

	if result.Error != nil {
		return writeError("delete record", result.Error)
	}

	s.publish(ctx, ownerID)
	return nil
}

// Watch opens a live subscription for one owner. The subscriber receives
// an initial full snapshot, then a fresh one after every change ping.
func (s *Store) Watch(ctx context.Context, ownerID string) (library.Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, channelFor(ownerID))

	// Force the subscription to establish before the first query so no
	// change between query and subscribe is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe change feed: %w", err)
	}

	sub := newSubscription(s, ownerID, pubsub)
	go sub.loop(ctx)
	return sub, nil
}

func (s *Store) queryOwner(ctx context.Context, ownerID string) ([]library.Record, error) {
	var records []library.Record
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query owner records: %w", err)
	}
	return records, nil
}

// publish is best-effort: a missed ping only delays the next snapshot, it
// never loses data, because every ping triggers a full re-read.
func (s *Store) publish(ctx context.Context, ownerID string) {
	if err := s.rdb.Publish(ctx, channelFor(ownerID), "changed").Err(); err != nil {
		log.Printf("[DocStore] failed to publish change for owner %s: %v", ownerID, err)
	}
}

// writeError maps driver failures onto the library's write error so
// callers can match with errors.Is.
func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w: %s", op, library.ErrWrite, pgErr.Message)
	}
	return fmt.Errorf("%s: %w: %v", op, library.ErrWrite, err)
}

var _ library.RecordStore = (*Store)(nil)
