// The datasrv command runs one or more test data source servers,
// each of which returns a random value for every requested channel.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rogpeppe/charter/datasourcetest"
)

var nflag = flag.Int("n", 1, "number of data source servers to start (ignored if addresses explicitly specified)")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: datasrv [<listenaddr>...]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	var addrs []string

	if flag.NArg() > 0 {
		addrs = flag.Args()
	} else {
		for i := 0; i < *nflag; i++ {
			addrs = append(addrs, "localhost:0")
		}
	}
	for _, addr := range addrs {
		srv, err := datasourcetest.NewServer(addr)
		if err != nil {
			log.Fatalf("cannot start server: %v", err)
		}
		fmt.Printf("http://%v\n", srv.Addr)
	}
	select {}
}
