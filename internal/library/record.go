package library

import "time"

// Record is one locally-owned library entry, mirroring a single remote
// document. The id is assigned by the remote store on creation and the
// owner id never changes afterwards.
type Record struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	Title         string    `json:"title" gorm:"not null"`
	Authors       []string  `json:"authors,omitempty" gorm:"serializer:json"`
	Synopsis      *string   `json:"synopsis,omitempty"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	ReadLink      *string   `json:"read_link,omitempty"`
	Genres        []string  `json:"genres,omitempty" gorm:"serializer:json"`
	Popularity    *int      `json:"popularity,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	OwnerID       string    `json:"owner_id" gorm:"type:uuid;not null;index"`
	IsFavorite    bool      `json:"is_favorite"`
}

func (Record) TableName() string {
	return "library_records"
}

// Candidate is a normalized, not-yet-persisted record. Both the catalog
// import flow and manual entry funnel through Store.Create with one of
// these; owner id and creation time are filled in by the store.
type Candidate struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Synopsis      *string  `json:"synopsis,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	ReadLink      *string  `json:"read_link,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Popularity    *int     `json:"popularity,omitempty"`
}
