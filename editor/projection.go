package editor

import (
	"sort"

	"github.com/DomEscobar/PDF-Simple/annotation"
)

// Projections are pure derived views over the present snapshot. They are
// recomputed on every call so consumers never observe stale data; callers
// that render per frame must tolerate repeated calls.

// ForPage returns the annotations on page n, in creation order. Each call
// produces a fresh slice.
func (s *Store) ForPage(n int) []annotation.Annotation {
	var out []annotation.Annotation
	for _, a := range s.history.Present() {
		if a.Page() == n {
			out = append(out, a)
		}
	}
	return out
}

// Selected resolves the selected annotation against the present snapshot.
// It returns nil when nothing is selected.
func (s *Store) Selected() annotation.Annotation {
	idx := indexByID(s.history.Present(), s.selectedID)
	if idx < 0 {
		return nil
	}
	return s.history.Present()[idx]
}

// AnnotationAt returns the topmost annotation on page containing p, where
// topmost means latest in creation order. It returns nil on a miss.
func (s *Store) AnnotationAt(page int, p annotation.Position) annotation.Annotation {
	cur := s.history.Present()
	for i := len(cur) - 1; i >= 0; i-- {
		a := cur[i]
		if a.Page() == page && a.Bounds().Contains(p) {
			return a
		}
	}
	return nil
}

// Pages returns the sorted distinct page numbers that carry annotations.
func (s *Store) Pages() []int {
	seen := map[int]bool{}
	var pages []int
	for _, a := range s.history.Present() {
		if !seen[a.Page()] {
			seen[a.Page()] = true
			pages = append(pages, a.Page())
		}
	}
	sort.Ints(pages)
	return pages
}
