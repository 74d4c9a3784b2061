package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func authorWith(name, first, last string) authorEntry {
	var e authorEntry
	e.Node.Name = name
	e.Node.FirstName = first
	e.Node.LastName = last
	return e
}

func TestNormalizeAuthors(t *testing.T) {
	t.Run("JoinsFirstAndLastName", func(t *testing.T) {
		names := normalizeAuthors([]authorEntry{authorWith("", "Eiichiro", "Oda")})
		assert.Equal(t, []string{"Eiichiro Oda"}, names)
	})

	t.Run("PrejoinedNameWins", func(t *testing.T) {
		names := normalizeAuthors([]authorEntry{authorWith("Oda Eiichiro", "ignored", "ignored")})
		assert.Equal(t, []string{"Oda Eiichiro"}, names)
	})

	t.Run("DropsEntryWithNoNames", func(t *testing.T) {
		names := normalizeAuthors([]authorEntry{authorWith("", "", "")})
		assert.Empty(t, names)
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		names := normalizeAuthors([]authorEntry{authorWith("", "  Kentaro ", " Miura ")})
		assert.Equal(t, []string{"Kentaro Miura"}, names)
	})

	t.Run("OmitsEmptyHalf", func(t *testing.T) {
		names := normalizeAuthors([]authorEntry{
			authorWith("", "CLAMP", ""),
			authorWith("", "", "Oda"),
		})
		assert.Equal(t, []string{"CLAMP", "Oda"}, names)
	})

	t.Run("WhitespaceOnlyHalvesAreDropped", func(t *testing.T) {
		names := normalizeAuthors([]authorEntry{authorWith("", "   ", "  ")})
		assert.Empty(t, names)
	})
}

func TestNormalizeGenres(t *testing.T) {
	names := normalizeGenres([]genreEntry{
		{ID: 1, Name: "Action"},
		{ID: 2, Name: "Adventure"},
	})
	assert.Equal(t, []string{"Action", "Adventure"}, names)
}

func TestResolveCover(t *testing.T) {
	assert.Equal(t, "", resolveCover(nil))
	assert.Equal(t, "large", resolveCover(&picture{Medium: "medium", Large: "large"}))
	assert.Equal(t, "medium", resolveCover(&picture{Medium: "medium"}))
}
