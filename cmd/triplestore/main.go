// Command triplestore loads a binary triple stream into an in-memory
// graph and can dump it back out, exercising pkg/graph, pkg/codec and
// pkg/rdfio end to end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/graphcore/triplestore/pkg/codec"
	"github.com/graphcore/triplestore/pkg/graph"
	"github.com/graphcore/triplestore/pkg/rdf"
	"github.com/graphcore/triplestore/pkg/rdfio"
)

const importBatchSize = 1000

func main() {
	log.SetFlags(0)
	log.SetPrefix("triplestore: ")

	importF := flag.String("i", "", "import a binary triple stream")
	dump := flag.Bool("d", false, "dump the loaded graph as a binary triple stream to standard out")
	roaring := flag.Bool("roaring", false, "use the roaring-bitmap-accelerated store instead of the classic indexed store")
	manual := flag.Bool("manual-index", false, "with -roaring, leave the bitmap index unbuilt until an explicit rebuild")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: triplestore <flags>")
		flag.PrintDefaults()
	}
	flag.Parse()

	var g graph.Graph
	if *roaring {
		mode := graph.Automatic
		if *manual {
			mode = graph.Manual
		}
		g = graph.NewRoaringStore(mode)
	} else {
		g = graph.NewClassicStore()
	}

	if *importF != "" {
		f, err := os.Open(*importF)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		b := rdfio.NewBuilder(g)
		b.SetBatchSize(importBatchSize)
		r := codec.NewReader(f)
		if err := rdfio.LoadCodecStream(r, b); err != nil {
			log.Fatal(err)
		}
		log.Printf("imported %d triples from %s", g.Size(), *importF)
	}

	if rs, ok := g.(*graph.RoaringStore); ok && rs.Mode() == graph.Manual {
		if err := rs.RebuildIndex(context.Background()); err != nil {
			log.Fatal(err)
		}
	}

	if *dump {
		w := codec.NewWriter(os.Stdout)
		for t := range g.Stream(allPattern()) {
			if err := w.WriteTriple(t); err != nil {
				log.Fatal(err)
			}
		}
		if err := w.Flush(); err != nil && !errors.Is(err, codec.ErrNothingToFlush) {
			log.Fatal(err)
		}
	}
}

func allPattern() rdf.Triple {
	return rdf.New(rdf.Any, rdf.Any, rdf.Any)
}
