package importer

import (
	"context"
	"log"

	"mangashelf/internal/catalog"
	"mangashelf/internal/library"
	"mangashelf/internal/session"
)

// Catalog is the detail-fetch half of the external catalog client.
type Catalog interface {
	FetchDetail(ctx context.Context, externalID string) (catalog.Detail, error)
}

// Library is the record creation entry point.
type Library interface {
	Create(ctx context.Context, candidate library.Candidate) (string, error)
}

// Pipeline turns one catalog entry into a locally-owned library record:
// detail fetch, candidate build, create. One linear unit of work per
// import, no retries. A failure at any stage leaves no record behind, so
// there is nothing to roll back.
type Pipeline struct {
	session *session.State
	catalog Catalog
	library Library
}

func NewPipeline(sess *session.State, cat Catalog, lib Library) *Pipeline {
	return &Pipeline{
		session: sess,
		catalog: cat,
		library: lib,
	}
}

// Import fetches the catalog detail for externalID and persists it as a
// new record owned by the signed-in user, returning the new record id.
func (p *Pipeline) Import(ctx context.Context, externalID string) (string, error) {
	if p.session.Current() == nil {
		return "", library.ErrNotAuthenticated
	}

	detail, err := p.catalog.FetchDetail(ctx, externalID)
	if err != nil {
		return "", err
	}

	// Synopsis, popularity and read link stay unset: the detail fetch
	// does not populate them in this flow.
	candidate := library.Candidate{
		Title:         detail.Title,
		Authors:       detail.Authors,
		Genres:        detail.Genres,
		CoverImageURL: optionalString(detail.CoverImageURL),
	}

	id, err := p.library.Create(ctx, candidate)
	if err != nil {
		return "", err
	}

	log.Printf("[Importer] imported %q (catalog id %s) as record %s", detail.Title, externalID, id)
	return id, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ Catalog = (*catalog.Client)(nil)
