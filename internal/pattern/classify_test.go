package pattern

import (
	"testing"

	"github.com/graphcore/triplestore/pkg/rdf"
)

func TestClassify(t *testing.T) {
	x := rdf.NewIRI("x")
	any := rdf.Any

	cases := []struct {
		s, p, o rdf.Node
		want    Tag
	}{
		{x, x, x, SubPreObj},
		{x, x, any, SubPreAny},
		{x, any, x, SubAnyObj},
		{x, any, any, SubAnyAny},
		{any, x, x, AnyPreObj},
		{any, x, any, AnyPreAny},
		{any, any, x, AnyAnyObj},
		{any, any, any, AnyAnyAny},
	}
	for _, c := range cases {
		got, err := Classify(c.s, c.p, c.o)
		if err != nil {
			t.Fatalf("Classify(%v,%v,%v) error: %v", c.s, c.p, c.o, err)
		}
		if got != c.want {
			t.Errorf("Classify(%v,%v,%v) = %v, want %v", c.s, c.p, c.o, got, c.want)
		}
	}
}

func TestClassifyRejectsVariable(t *testing.T) {
	_, err := Classify(rdf.NewVariable("s"), rdf.Any, rdf.Any)
	if err == nil {
		t.Fatal("expected error classifying a pattern containing a Variable")
	}
}
