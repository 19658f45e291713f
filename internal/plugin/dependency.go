package plugin

import (
	"fmt"
	"sort"
)

// ResolveLoadOrder builds the dependency graph described in spec.md §4.6
// from a discovered plugin set and returns them in load order: a
// topological sort of the requires/load-after edges, ties broken by
// descending Priority then ascending name.
//
// It fails closed: a missing required dependency, a declared conflict
// between two plugins both present in infos, or a cycle in the graph all
// return before any ordering is produced.
func ResolveLoadOrder(infos []*PluginInfo) ([]*PluginInfo, error) {
	byName := make(map[string]*PluginInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	// edges[x] = set of names that must load before x.
	edges := make(map[string]map[string]bool, len(infos))
	for _, info := range infos {
		edges[info.Name] = make(map[string]bool)
	}

	for _, info := range infos {
		m := info.Manifest
		if m == nil {
			continue
		}
		for _, dep := range m.Dependencies {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("%w: %q requires %q", ErrMissingDependency, info.Name, dep)
			}
			edges[info.Name][dep] = true
		}
		for _, dep := range m.LoadAfter {
			if _, ok := byName[dep]; ok {
				edges[info.Name][dep] = true
			}
		}
		// Optional dependencies only order relative to each other when
		// both happen to be present; a missing optional is never an error.
		for _, dep := range m.Optional {
			if _, ok := byName[dep]; ok {
				edges[info.Name][dep] = true
			}
		}
	}

	for _, info := range infos {
		for _, other := range info.Manifest.conflictsWith() {
			if target, ok := byName[other]; ok {
				return nil, fmt.Errorf("%w: %q conflicts with %q", ErrConflictingPlugins, info.Name, target.Name)
			}
		}
	}

	order, err := topoSort(infos, edges)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// conflictsWith returns the conflicting plugin names, tolerating a nil
// manifest (single-file plugins built by the loader carry a minimal one).
func (m *Manifest) conflictsWith() []string {
	if m == nil {
		return nil
	}
	return m.Conflicts
}

// topoSort performs Kahn's algorithm over edges (x -> set of prerequisites
// of x). At each step, among the prerequisite-free nodes remaining, it
// picks the one with the highest Priority, breaking further ties by name.
func topoSort(infos []*PluginInfo, edges map[string]map[string]bool) ([]*PluginInfo, error) {
	byName := make(map[string]*PluginInfo, len(infos))
	remaining := make(map[string]map[string]bool, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
		deps := make(map[string]bool, len(edges[info.Name]))
		for k := range edges[info.Name] {
			deps[k] = true
		}
		remaining[info.Name] = deps
	}

	ordered := make([]*PluginInfo, 0, len(infos))
	placed := make(map[string]bool, len(infos))

	for len(ordered) < len(infos) {
		var ready []string
		for name, deps := range remaining {
			if placed[name] {
				continue
			}
			if allPlaced(deps, placed) {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			return nil, fmt.Errorf("%w among: %s", ErrDependencyCycle, unplacedNames(infos, placed))
		}

		sort.Slice(ready, func(i, j int) bool {
			pi, pj := byName[ready[i]].Manifest.Priority, byName[ready[j]].Manifest.Priority
			if pi != pj {
				return pi > pj
			}
			return ready[i] < ready[j]
		})

		next := ready[0]
		ordered = append(ordered, byName[next])
		placed[next] = true
	}

	return ordered, nil
}

func allPlaced(deps map[string]bool, placed map[string]bool) bool {
	for d := range deps {
		if !placed[d] {
			return false
		}
	}
	return true
}

func unplacedNames(infos []*PluginInfo, placed map[string]bool) string {
	var names []string
	for _, info := range infos {
		if !placed[info.Name] {
			names = append(names, info.Name)
		}
	}
	sort.Strings(names)
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}
