package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/taiki-okano/benchcached/pkg/store"
	"github.com/taiki-okano/benchcached/pkg/workload"
)

// Run the benchmark workload against an embedded table, no network.
func main() {
	// Set up flags.
	var requestsFlag = flag.Int("requests", 500000, "number of requests to issue")
	var keyspaceFlag = flag.Int("keyspace", 1024, "number of distinct keys")
	var seedFlag = flag.Uint("seed", uint(workload.DefaultSeed), "workload seed")
	flag.Parse()

	if *requestsFlag <= 0 || *keyspaceFlag <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	table, err := store.NewSizedTable(*keyspaceFlag, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to allocate table:", err)
		os.Exit(1)
	}
	exec := &workload.TableExecer{Table: table}

	fmt.Println("Standalone benchmark")
	fmt.Printf("Requests: %d, Keyspace: %d\n", *requestsFlag, *keyspaceFlag)

	failures := workload.Populate(*keyspaceFlag, exec)

	gen := workload.NewGenerator(uint32(*seedFlag), *keyspaceFlag)
	report := workload.NewRunner(gen, 1).Run(*requestsFlag, exec)
	report.Failures += failures
	report.Print(os.Stdout)

	if report.Failures > 0 {
		os.Exit(2)
	}
}
