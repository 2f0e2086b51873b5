// Package dag implements the pure graph computations behind workflow
// coordination: transitive ancestor/descendant resolution, root computation
// from changed files, deterministic topological ordering, supersession
// merging of in-flight and newly triggered workflows, and cancellation
// blast-radius selection.
//
// Every function here is a pure function of its inputs. Caches are owned by
// the caller and scoped to a single computation; nothing in this package
// holds state between calls, so it is safe to invoke repeatedly and from
// concurrent invocations of the tool.
package dag
