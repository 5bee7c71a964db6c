package rdf

// Quad is a Triple scoped to a named graph.
type Quad struct {
	Graph     Node
	Subject   Node
	Predicate Node
	Object    Node
}

// NewQuad returns the quad (g, s, p, o).
func NewQuad(g, s, p, o Node) Quad {
	return Quad{Graph: g, Subject: s, Predicate: p, Object: o}
}

// Triple discards the graph and returns the (s, p, o) triple.
func (q Quad) Triple() Triple { return New(q.Subject, q.Predicate, q.Object) }

// Equals reports term equality position-by-position, including the
// graph.
func (q Quad) Equals(other Quad) bool {
	return q.Graph.Equals(other.Graph) && q.Triple().Equals(other.Triple())
}
