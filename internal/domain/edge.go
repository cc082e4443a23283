package domain

import (
	"encoding/hex"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Link is one interaction type between two contracts.
//
// Source and Target hold the raw addresses. Once a simulation resolves the link
// the endpoint nodes are available through Endpoints; an endpoint that is not
// part of the node set stays nil and the link is inert.
type Link struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Count  int    `json:"count"`
	Index  int    `json:"index"`

	resolved   bool
	sourceNode *Node
	targetNode *Node
}

// NewLink creates a link with a generated ID
func NewLink(source, target, linkType string, count int) *Link {
	link := &Link{
		Source: source,
		Target: target,
		Type:   linkType,
		Count:  count,
	}
	link.ID = link.GenerateID()
	return link
}

// GenerateID creates a deterministic ID for the link based on its endpoints and type.
// Direction matters: A->B and B->A are different links.
func (l *Link) GenerateID() string {
	key := NormalizeAddress(l.Source) + "\x00" + NormalizeAddress(l.Target) + "\x00" + l.Type
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// Resolve binds the link to its endpoint nodes using a lookup by address.
// Missing endpoints are left nil.
func (l *Link) Resolve(lookup func(id string) *Node) {
	l.sourceNode = lookup(l.Source)
	l.targetNode = lookup(l.Target)
	l.resolved = true
}

// Resolved reports whether Resolve has run
func (l *Link) Resolved() bool {
	return l.resolved
}

// Endpoints returns the resolved source and target nodes; either may be nil
func (l *Link) Endpoints() (*Node, *Node) {
	return l.sourceNode, l.targetNode
}

// Active reports whether both endpoints resolved to nodes
func (l *Link) Active() bool {
	return l.sourceNode != nil && l.targetNode != nil
}

// SourcePosition returns the live source coordinates, or the origin when unresolved
func (l *Link) SourcePosition() (float64, float64) {
	return position(l.sourceNode)
}

// TargetPosition returns the live target coordinates, or the origin when unresolved
func (l *Link) TargetPosition() (float64, float64) {
	return position(l.targetNode)
}

// Touches reports whether either endpoint matches an address (case-insensitive)
func (l *Link) Touches(address string) bool {
	key := NormalizeAddress(address)
	return NormalizeAddress(l.Source) == key || NormalizeAddress(l.Target) == key
}

// StrokeWidth scales the interaction count for display. Square root keeps very
// busy links from dominating the canvas.
func (l *Link) StrokeWidth() float64 {
	if l.Count <= 0 {
		return 0
	}
	return math.Sqrt(float64(l.Count))
}

func position(n *Node) (float64, float64) {
	if n == nil || !n.Finite() {
		return 0, 0
	}
	return n.X, n.Y
}
