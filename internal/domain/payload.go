package domain

import (
	"encoding/json"
	"strings"
)

// RawEdge is one source/target pair as returned by the analysis API, with the
// number of observed interactions per interaction type.
type RawEdge struct {
	Source string         `json:"source" yaml:"source"`
	Target string         `json:"target" yaml:"target"`
	Types  map[string]int `json:"types" yaml:"types"`
}

// GraphPayload is the dependency network for a queried contract
type GraphPayload struct {
	Address   string            `json:"address" yaml:"address"`
	FromBlock *int64            `json:"from_block,omitempty" yaml:"from_block,omitempty"`
	ToBlock   *int64            `json:"to_block,omitempty" yaml:"to_block,omitempty"`
	Edges     []RawEdge         `json:"edges" yaml:"edges"`
	Nodes     map[string]string `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// NewGraphPayload creates an empty payload for an address
func NewGraphPayload(address string) *GraphPayload {
	return &GraphPayload{
		Address: address,
		Edges:   make([]RawEdge, 0),
		Nodes:   make(map[string]string),
	}
}

// AddEdge appends a raw edge to the payload
func (p *GraphPayload) AddEdge(source, target string, types map[string]int) {
	p.Edges = append(p.Edges, RawEdge{Source: source, Target: target, Types: types})
}

// Normalize fixes up a decoded payload in place: nil collections become empty
// and name lookup keys are lowercased so lookups never depend on the casing the
// API happened to use. When two keys collide after lowercasing, the first one in
// key order wins.
func (p *GraphPayload) Normalize() {
	if p.Edges == nil {
		p.Edges = make([]RawEdge, 0)
	}
	for i := range p.Edges {
		if p.Edges[i].Types == nil {
			p.Edges[i].Types = make(map[string]int)
		}
	}
	p.Nodes = NormalizeNames(p.Nodes)
}

// NormalizeNames returns a copy of a name lookup keyed by lowercase address
func NormalizeNames(names map[string]string) map[string]string {
	normalized := make(map[string]string, len(names))
	for _, key := range sortedKeys(names) {
		lower := NormalizeAddress(key)
		if _, exists := normalized[lower]; exists {
			continue
		}
		normalized[lower] = names[key]
	}
	return normalized
}

// Name returns the display name for an address, if the payload carries one
func (p *GraphPayload) Name(address string) (string, bool) {
	if p == nil || p.Nodes == nil {
		return "", false
	}
	name, ok := p.Nodes[NormalizeAddress(address)]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// DecodePayload parses a JSON dependency response. Missing fields are treated
// as an empty graph rather than an error; only malformed JSON fails.
func DecodePayload(data []byte) (*GraphPayload, error) {
	var payload GraphPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	payload.Normalize()
	return &payload, nil
}

// NormalizeAddress returns the case-insensitive identity of an address
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
