package storage

import "sort"

// indexSentinel sorts records without an index after every real index.
const indexSentinel = "zzzz"

// ProjectList is an ordered collection of opened records. Order is
// insertion order unless SortByIndex is called.
type ProjectList[R Storable] []R

// SortByIndex sorts the list by each record's own sortable index.
// Records without an index sort last.
func (l ProjectList[R]) SortByIndex() {
	sort.SliceStable(l, func(i, j int) bool {
		return sortKey(l[i]) < sortKey(l[j])
	})
}

func sortKey(r Storable) string {
	if idx, ok := r.Index(); ok {
		return idx
	}
	return indexSentinel
}

// FilterByYear keeps only records whose declared year equals year.
func (l ProjectList[R]) FilterByYear(year Year) ProjectList[R] {
	out := make(ProjectList[R], 0, len(l))
	for _, r := range l {
		if y, ok := r.Year(); ok && y == year {
			out = append(out, r)
		}
	}
	return out
}

// Dirs returns the directory of every record in the list.
func (l ProjectList[R]) Dirs() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = r.Dir()
	}
	return out
}

// ProjectsByYear groups archived records by partition, preserving the
// ascending year order of the archive.
type ProjectsByYear[R Storable] struct {
	Years  []Year
	ByYear map[Year]ProjectList[R]
}

// Projects bundles the working set with every archive partition.
type Projects[R Storable] struct {
	Working ProjectList[R]
	Archive ProjectsByYear[R]
}
