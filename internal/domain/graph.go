package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Graph is the node/link view of a dependency payload
type Graph struct {
	Address string  `json:"address"`
	Nodes   []*Node `json:"nodes"`
	Links   []*Link `json:"links"`

	names map[string]string
	index map[string]*Node
	links map[string]*Link
}

// NewGraph creates an empty graph for a queried address
func NewGraph(address string) *Graph {
	return &Graph{
		Address: address,
		Nodes:   make([]*Node, 0),
		Links:   make([]*Link, 0),
		names:   make(map[string]string),
		index:   make(map[string]*Node),
		links:   make(map[string]*Link),
	}
}

// BuildGraph converts a payload into a deduplicated node set and a flattened
// link list. Each raw edge yields one link per interaction type; nodes are the
// union of all link endpoints, deduplicated case-insensitively. A nil payload or
// one without edges yields an empty graph. Edges missing an endpoint are skipped.
func BuildGraph(payload *GraphPayload) *Graph {
	if payload == nil {
		return NewGraph("")
	}

	graph := NewGraph(payload.Address)
	root := NormalizeAddress(payload.Address)
	graph.names = NormalizeNames(payload.Nodes)

	for _, edge := range payload.Edges {
		if NormalizeAddress(edge.Source) == "" || NormalizeAddress(edge.Target) == "" {
			continue
		}
		for _, linkType := range sortedKeys(edge.Types) {
			link := NewLink(edge.Source, edge.Target, linkType, edge.Types[linkType])
			link.Index = len(graph.Links)
			// Duplicate raw edges would collide on the digest
			if _, exists := graph.links[link.ID]; exists {
				link.ID = fmt.Sprintf("%s-%d", link.ID, link.Index)
			}
			graph.Links = append(graph.Links, link)
			graph.links[link.ID] = link

			graph.addNode(edge.Source, root)
			graph.addNode(edge.Target, root)
		}
	}

	return graph
}

func (g *Graph) addNode(id, root string) {
	key := NormalizeAddress(id)
	if _, exists := g.index[key]; exists {
		return
	}

	group := GroupOther
	if root != "" && key == root {
		group = GroupMain
	}

	node := NewNode(id, group)
	node.Index = len(g.Nodes)
	g.Nodes = append(g.Nodes, node)
	g.index[key] = node
}

// Node returns the node for an address (case-insensitive), or nil
func (g *Graph) Node(id string) *Node {
	if g == nil {
		return nil
	}
	return g.index[NormalizeAddress(id)]
}

// Link returns the link with the given ID, or nil
func (g *Graph) Link(id string) *Link {
	if g == nil {
		return nil
	}
	return g.links[id]
}

// ResolveLinks binds every link to its endpoint nodes
func (g *Graph) ResolveLinks() {
	for _, link := range g.Links {
		link.Resolve(g.Node)
	}
}

// IsRoot reports whether an address is the queried contract
func (g *Graph) IsRoot(address string) bool {
	return g != nil && g.Address != "" && NormalizeAddress(address) == NormalizeAddress(g.Address)
}

// Label returns the display text for a node: its known name, or a shortened address
func (g *Graph) Label(id string) string {
	if g != nil {
		if name, ok := g.names[NormalizeAddress(id)]; ok && name != "" {
			return name
		}
	}
	return ShortAddress(id)
}

// ShortAddress abbreviates an address as 0x1234...abcd
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
