// Package dupes groups scanned files by fingerprint, picks the canonical
// copy of each group, and applies the requested action to the rest.
package dupes

import (
	"strings"

	"golang.org/x/exp/slices"

	"imgdedup/internal/fingerprint"
	"imgdedup/internal/scan"
)

// Group is a set of files sharing a fingerprint. Only groups with two or
// more members are actionable.
type Group struct {
	Fingerprint fingerprint.Fingerprint
	Files       []scan.File
}

// GroupFiles buckets files by fingerprint and drops singletons. Members
// are sorted by relative path and groups by their first member, so the
// result is deterministic for a given tree.
func GroupFiles(files []scan.File) []Group {
	byFP := make(map[fingerprint.Fingerprint][]scan.File)
	for _, f := range files {
		byFP[f.Fingerprint] = append(byFP[f.Fingerprint], f)
	}

	var groups []Group
	for fp, members := range byFP {
		if len(members) < 2 {
			continue
		}
		slices.SortFunc(members, func(a, b scan.File) int {
			return strings.Compare(a.Rel, b.Rel)
		})
		groups = append(groups, Group{Fingerprint: fp, Files: members})
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Files[0].Rel, b.Files[0].Rel)
	})
	return groups
}
