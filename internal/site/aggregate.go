package site

import (
	"autofix/internal/render"
	"autofix/internal/textutil"
)

// Group is every entry sharing one make or one problem.
type Group struct {
	Name    string
	Slug    string
	Entries []render.Entry
}

// Index is the grouped view of a build's entries.
type Index struct {
	Entries   []render.Entry
	ByMake    []Group
	ByProblem []Group
}

// Aggregate groups entries by make and by problem in first-seen order.
func Aggregate(entries []render.Entry) Index {
	return Index{
		Entries:   entries,
		ByMake:    groupBy(entries, func(e render.Entry) string { return e.Make }),
		ByProblem: groupBy(entries, func(e render.Entry) string { return e.Problem }),
	}
}

func groupBy(entries []render.Entry, key func(render.Entry) string) []Group {
	var groups []Group
	position := make(map[string]int)
	for _, entry := range entries {
		k := key(entry)
		i, ok := position[k]
		if !ok {
			i = len(groups)
			position[k] = i
			groups = append(groups, Group{Name: k, Slug: textutil.Slugify(k)})
		}
		groups[i].Entries = append(groups[i].Entries, entry)
	}
	return groups
}
