package lockfile

import (
	"sort"
)

// ChangeKind classifies a difference between two lockfiles.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeUpdated  ChangeKind = "updated"
	ChangeChecksum ChangeKind = "checksum"
)

// Change is one package-level difference.
type Change struct {
	Kind   ChangeKind `json:"kind" yaml:"kind"`
	Name   string     `json:"name" yaml:"name"`
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`
	From   string     `json:"from,omitempty" yaml:"from,omitempty"`
	To     string     `json:"to,omitempty" yaml:"to,omitempty"`
}

// groupKey identifies a package independent of version. A lockfile may hold
// several versions of one group.
type groupKey struct {
	name   string
	source string
}

type versionKey struct {
	groupKey
	version string
}

func index(f *File) map[versionKey]Package {
	out := make(map[versionKey]Package)
	if f == nil {
		return out
	}
	for _, p := range f.Packages {
		out[versionKey{groupKey{p.Name, p.Source}, p.Version}] = p
	}
	return out
}

// Diff lists the changes that turn before into after, ordered by package
// name. Either side may be nil.
func Diff(before, after *File) []Change {
	old := index(before)
	cur := index(after)

	removed := make(map[groupKey][]string)
	added := make(map[groupKey][]string)
	var changes []Change

	for k, p := range old {
		q, ok := cur[k]
		if !ok {
			removed[k.groupKey] = append(removed[k.groupKey], k.version)
			continue
		}
		if p.Checksum != q.Checksum {
			changes = append(changes, Change{
				Kind: ChangeChecksum, Name: k.name, Source: k.source, From: p.Checksum, To: q.Checksum,
			})
		}
	}
	for k := range cur {
		if _, ok := old[k]; !ok {
			added[k.groupKey] = append(added[k.groupKey], k.version)
		}
	}

	// A single version swapped for another reads as an update.
	for g, from := range removed {
		to := added[g]
		if len(from) == 1 && len(to) == 1 {
			changes = append(changes, Change{Kind: ChangeUpdated, Name: g.name, Source: g.source, From: from[0], To: to[0]})
			delete(added, g)
			continue
		}
		for _, v := range from {
			changes = append(changes, Change{Kind: ChangeRemoved, Name: g.name, Source: g.source, From: v})
		}
	}
	for g, to := range added {
		for _, v := range to {
			changes = append(changes, Change{Kind: ChangeAdded, Name: g.name, Source: g.source, To: v})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Source < b.Source
	})
	return changes
}
