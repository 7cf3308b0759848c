// rkgrep is a one-shot substring counter over a local file, useful for
// comparing the three matching strategies without a server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rksearch/rksearch/internal/docfilter"
	"github.com/rksearch/rksearch/internal/match"
)

var (
	algo        = flag.String("algo", "bloom", "matching strategy: naive, rk or bloom")
	bloomBits   = flag.Uint("bloom-bits", 1<<20, "bloom filter capacity in bits")
	bloomHashes = flag.Uint("bloom-hashes", 4, "bloom filter hash functions")
)

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: rkgrep [flags] <pattern> <file>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	pattern := []byte(flag.Arg(0))
	doc, err := os.ReadFile(flag.Arg(1))
	must(err)

	var res match.Result
	switch *algo {
	case "naive":
		res, err = match.Naive(pattern, doc)
	case "rk":
		res, err = match.HashVerified(pattern, doc)
	case "bloom":
		var f *docfilter.Filter
		f, err = docfilter.Build(doc, len(pattern), *bloomBits, *bloomHashes)
		if err == nil {
			res, err = docfilter.Match(pattern, doc, f)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown algorithm %q\n", *algo)
		os.Exit(1)
	}
	must(err)

	if res.Count == 0 {
		fmt.Println("no matches")
		return
	}
	fmt.Printf("%d matches, first at %d\n", res.Count, res.FirstIndex)
}
