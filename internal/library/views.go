package library

import "sort"

// Derived views are pure functions over the current snapshot; nothing is
// cached across calls.

// FilterByGenre returns records whose genre list contains genre,
// case-sensitive exact match.
func (s *Store) FilterByGenre(genre string) []Record {
	var out []Record
	for _, record := range s.Snapshot() {
		for _, g := range record.Genres {
			if g == genre {
				out = append(out, record)
				break
			}
		}
	}
	return out
}

// SortByPopularity stable-sorts by the popularity rank, treating an absent
// rank as 0.
func (s *Store) SortByPopularity(descending bool) []Record {
	records := s.Snapshot()
	sort.SliceStable(records, func(i, j int) bool {
		a := popularityOrZero(records[i])
		b := popularityOrZero(records[j])
		if descending {
			return a > b
		}
		return a < b
	})
	return records
}

// SortByDate stable-sorts by creation time. An absent timestamp is the
// zero time, which orders last when newestFirst is set.
func (s *Store) SortByDate(newestFirst bool) []Record {
	records := s.Snapshot()
	sort.SliceStable(records, func(i, j int) bool {
		if newestFirst {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records
}

// FavoritesOnly returns the records flagged as favorites.
func (s *Store) FavoritesOnly() []Record {
	var out []Record
	for _, record := range s.Snapshot() {
		if record.IsFavorite {
			out = append(out, record)
		}
	}
	return out
}

func popularityOrZero(r Record) int {
	if r.Popularity == nil {
		return 0
	}
	return *r.Popularity
}
