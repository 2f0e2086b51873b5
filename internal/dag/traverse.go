package dag

import "github.com/opsgraph/workflowctl/internal/graph"

// Cache memoizes resolved ancestor or descendant sets across queries within
// a single computation. Callers own the cache and must not share one cache
// between ancestor and descendant queries; pass nil to resolve without
// memoization.
type Cache map[string]Set

// NewCache returns an empty traversal cache.
func NewCache() Cache {
	return make(Cache)
}

// Ancestors returns the transitive dependency closure of key: every
// workflow that key depends on, directly or indirectly. Dangling
// depends_on references are included but contribute no further ancestors.
// On acyclic input a key is never its own ancestor; cyclic input terminates
// with a partial result instead of recursing forever.
func Ancestors(g *graph.Graph, key string, cache Cache) Set {
	if cache == nil {
		cache = NewCache()
	}
	return walk(key, cache, make(Set), g.DependsOn)
}

// Descendants returns the transitive dependent closure of key: every
// workflow whose depends_on transitively includes key. The key itself does
// not have to be in the graph. Same cycle hardening as Ancestors.
func Descendants(g *graph.Graph, key string, cache Cache) Set {
	if cache == nil {
		cache = NewCache()
	}
	return walk(key, cache, make(Set), g.Dependents)
}

// walk computes the transitive closure of key over next, memoizing complete
// results in cache. The visiting set breaks cycles: re-entering a key that
// is currently being expanded contributes nothing instead of recursing.
func walk(key string, cache Cache, visiting Set, next func(string) []string) Set {
	if resolved, ok := cache[key]; ok {
		return resolved
	}
	if visiting.Has(key) {
		return nil
	}
	visiting.Add(key)

	result := make(Set)
	for _, neighbor := range next(key) {
		result.Add(neighbor)
		result.AddAll(walk(neighbor, cache, visiting, next))
	}

	delete(visiting, key)
	cache[key] = result
	return result
}
