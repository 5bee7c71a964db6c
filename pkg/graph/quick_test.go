package graph

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"reflect"
	"testing"
	"testing/quick"
	"time"

	"github.com/graphcore/triplestore/pkg/rdf"
)

// These quick checks default to 5 iterations and a random seed. Override
// from the command line:
//
//	-quick.count     The number of iterations to perform.
//	-quick.seed      The seed to use for randomizing.
//	-quick.maxnodes  The maximum number of subject nodes in a generated graph.
var (
	qcount, qseed, qmaxnodes int
	rnd                      *rand.Rand
)

func init() {
	flag.IntVar(&qcount, "quick.count", 5, "")
	flag.IntVar(&qseed, "quick.seed", int(time.Now().UnixNano())%100000, "")
	flag.IntVar(&qmaxnodes, "quick.maxnodes", 10, "")
	testing.Init()
	flag.Parse()
	fmt.Fprintln(os.Stderr, "random seed:", qseed)
	rnd = rand.New(rand.NewSource(int64(qseed)))
}

func qconfig() *quick.Config {
	return &quick.Config{
		MaxCount: qcount,
		Rand:     rand.New(rand.NewSource(int64(qseed))),
	}
}

type testdata []rdf.Triple

func (t testdata) Generate(rand *rand.Rand, size int) reflect.Value {
	const base = "http://test.example/"

	n := rand.Intn(90) + 10
	preds := make([]rdf.Node, n)
	for i := range preds {
		preds[i] = randIRI(base)
	}

	n = rand.Intn(qmaxnodes) + 1
	nodes := make([]rdf.Node, n)
	for i := range nodes {
		nodes[i] = randIRI(base)
	}

	g := make(testdata, 0, n)
	for _, subj := range nodes {
		k := rand.Intn(10) + 1
		for i := 0; i < k; i++ {
			pred := preds[rand.Intn(len(preds))]
			var obj rdf.Node
			r := rnd.Intn(100)
			switch {
			case r < 20:
				obj = nodes[rand.Intn(len(nodes))]
			case r < 25:
				obj = randIRI("")
			default:
				obj = randLiteral()
			}
			g = append(g, rdf.New(subj, pred, obj))
		}
	}
	return reflect.ValueOf(g)
}

func randIRI(base string) rdf.Node {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-///.."
	l := rnd.Intn(30) + 1
	b := make([]byte, l)
	for i := range b {
		b[i] = letters[rnd.Intn(len(letters))]
	}
	return rdf.NewIRI(base + string(b))
}

func randLiteral() rdf.Node {
	r := rnd.Intn(100)
	switch {
	case r < 50: // plain strings
		return rdf.NewLiteral(randWord())
	case r < 60: // language-tagged strings
		return rdf.NewLangLiteral(randWord(), randLang())
	case r < 80: // integers, sometimes with an alternate spelling duplicate
		n := rnd.Intn(1000) - 500
		return rdf.NewTypedLiteral(fmt.Sprintf("%d", n), rdf.XSDInteger)
	default: // doubles, deliberately varying lexical spelling of the same value
		f := float64(rnd.Intn(1000)) / 10
		spellings := []string{
			fmt.Sprintf("%g", f),
			fmt.Sprintf("%.1f", f),
			fmt.Sprintf("%.2f0", f),
		}
		return rdf.NewTypedLiteral(spellings[rnd.Intn(len(spellings))], rdf.XSDDouble)
	}
}

func randWord() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	l := rnd.Intn(12) + 1
	b := make([]byte, l)
	for i := range b {
		b[i] = letters[rnd.Intn(len(letters))]
	}
	return string(b)
}

func randLang() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	l := rnd.Intn(3) + 2
	b := make([]byte, l)
	for i := range b {
		b[i] = letters[rnd.Intn(len(letters))]
	}
	return string(b)
}
