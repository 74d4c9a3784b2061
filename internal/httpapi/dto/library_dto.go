package dto

// ImportRequest: payload for importing a catalog entry into the library
type ImportRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
}

// CreateRecordRequest: payload for the manual-entry path
type CreateRecordRequest struct {
	Title         string   `json:"title" binding:"required"`
	Authors       []string `json:"authors,omitempty"`
	Synopsis      *string  `json:"synopsis,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	ReadLink      *string  `json:"read_link,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Popularity    *int     `json:"popularity,omitempty"`
}

// LibraryStatusResponse: the binding status of the library store.
// "unbound", "loading", "error" and "ready" (possibly with zero records)
// are four different conditions and must stay that way for clients.
type LibraryStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Count  int    `json:"count"`
}
