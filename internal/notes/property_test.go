// ABOUTME: Property-based tests for store invariants.
// ABOUTME: Uses rapid to check id uniqueness, ordering, search membership, and round trips.

package notes

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/harper/quicknote/internal/storage"
	"pgregory.net/rapid"
)

// contentGenerator produces non-blank note bodies with mixed case.
func contentGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z0-9 .,!?]{0,40}`)
}

// queryGenerator produces short queries so matches are common.
func queryGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(""),
		rapid.StringMatching(`[A-Za-z ]{1,3}`),
	)
}

func TestPropertyIDsUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Open(storage.NewMemory(nil))
		contents := rapid.SliceOfN(contentGenerator(), 1, 30).Draw(t, "contents")

		seen := make(map[uuid.UUID]struct{})
		for _, c := range contents {
			note, err := s.Create(c)
			if err != nil {
				t.Fatalf("create %q: %v", c, err)
			}
			if _, dup := seen[note.ID]; dup {
				t.Fatalf("duplicate id %v", note.ID)
			}
			seen[note.ID] = struct{}{}
		}
	})
}

func TestPropertyNewestFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Open(storage.NewMemory(nil))
		contents := rapid.SliceOfN(contentGenerator(), 1, 20).Draw(t, "contents")

		var created []uuid.UUID
		for _, c := range contents {
			note, _ := s.Create(c)
			created = append(created, note.ID)
		}

		notes := s.Notes()
		for i, n := range notes {
			if want := created[len(created)-1-i]; n.ID != want {
				t.Fatalf("position %d: expected %v, got %v", i, want, n.ID)
			}
		}
	})
}

func TestPropertySearchMembership(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Open(storage.NewMemory(nil))
		for _, c := range rapid.SliceOfN(contentGenerator(), 0, 20).Draw(t, "contents") {
			_, _ = s.Create(c)
		}
		query := queryGenerator().Draw(t, "query")

		results := s.Search(query)
		inResults := make(map[uuid.UUID]bool, len(results))
		for _, n := range results {
			inResults[n.ID] = true
		}

		all := s.Notes()
		for _, n := range all {
			want := query == "" || strings.Contains(strings.ToLower(n.Content), strings.ToLower(query))
			if inResults[n.ID] != want {
				t.Fatalf("note %q with query %q: in results = %v, want %v", n.Content, query, inResults[n.ID], want)
			}
		}

		// Results keep the collection's relative order.
		j := 0
		for _, n := range all {
			if j < len(results) && results[j].ID == n.ID {
				j++
			}
		}
		if j != len(results) {
			t.Fatalf("results are not in collection order for query %q", query)
		}

		if query == "" && len(results) != len(all) {
			t.Fatalf("empty query returned %d of %d notes", len(results), len(all))
		}
	})
}

func TestPropertySearchIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := newFlaky()
		s := Open(a)
		for _, c := range rapid.SliceOfN(contentGenerator(), 0, 10).Draw(t, "contents") {
			_, _ = s.Create(c)
		}
		query := queryGenerator().Draw(t, "query")
		saves := a.saves

		first := s.Search(query)
		second := s.Search(query)

		if len(first) != len(second) {
			t.Fatalf("repeated search differs: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("repeated search differs at %d", i)
			}
		}
		if a.saves != saves {
			t.Fatal("search wrote to the adapter")
		}
	})
}

func TestPropertyReloadReproducesCollection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mem := storage.NewMemory(nil)
		s := Open(mem)
		for _, c := range rapid.SliceOfN(contentGenerator(), 0, 15).Draw(t, "contents") {
			_, _ = s.Create(c)
		}
		notes := s.Notes()
		if len(notes) > 0 && rapid.Bool().Draw(t, "delete") {
			victim := rapid.IntRange(0, len(notes)-1).Draw(t, "victim")
			s.Delete(notes[victim].ID)
		}

		want := s.Notes()
		got := Open(mem).Notes()
		if len(got) != len(want) {
			t.Fatalf("expected %d notes after reload, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i].ID != want[i].ID || got[i].Content != want[i].Content || !got[i].CreatedAt.Equal(want[i].CreatedAt) {
				t.Fatalf("note %d differs after reload", i)
			}
		}
	})
}
