package graph

import "github.com/graphcore/triplestore/pkg/rdf"

// Describe returns a new ClassicStore holding every triple of g where
// node is the subject, plus (if asObject is true) every triple where
// node is the object.
func Describe(g Graph, node rdf.Node, asObject bool) Graph {
	out := NewClassicStore()
	for t := range g.Stream(rdf.New(node, rdf.Any, rdf.Any)) {
		out.Add(t)
	}
	if asObject {
		for t := range g.Stream(rdf.New(rdf.Any, rdf.Any, node)) {
			out.Add(t)
		}
	}
	return out
}

// Merge copies every triple of src into dst and returns dst.
func Merge(dst Graph, src Graph) Graph {
	for t := range src.Stream(rdf.New(rdf.Any, rdf.Any, rdf.Any)) {
		dst.Add(t)
	}
	return dst
}
