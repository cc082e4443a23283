// Package domain defines the core types for the contractlens dependency graph viewer.
//
// This package contains the input payload produced by the analysis API and the
// derived node/link model consumed by the layout engine.
//
// # Core Types
//
// GraphPayload is the raw dependency response: the queried contract address,
// an edge list with per-interaction-type counts, and an optional display-name
// lookup.
//
// Node is a contract in the rendered graph. Its identity is the lowercased
// address; its group is "main" for the queried contract and "other" for every
// other contract. Position and pin fields are mutated by the layout engine and
// the drag controller.
//
// Link is one interaction type between a source and a target. A raw edge with
// k interaction types expands to k links sharing the same endpoints. Links are
// resolved to their endpoint nodes once, when a simulation is built.
//
// Graph is the result of BuildGraph: a deduplicated node set and the flattened
// link list.
//
// # Interactions
//
// InteractionRows flattens a payload into the rows shown in the interaction
// table, classified as direct (the queried contract is the source) or indirect,
// with sorting and filtering helpers.
//
// # Design Principles
//
// - BuildGraph is a pure function of its input
// - Graphs are rebuilt on every payload, never patched
// - No network, storage or rendering dependencies
package domain
