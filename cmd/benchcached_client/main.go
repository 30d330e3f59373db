package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/taiki-okano/benchcached/pkg/config"
	"github.com/taiki-okano/benchcached/pkg/workload"
)

// Drive the benchmark workload against a running server.
func main() {
	// Set up flags.
	var hostFlag = flag.String("host", "127.0.0.1", "server host")
	var portFlag = flag.Int("p", config.DefaultPort, "port number")
	var requestsFlag = flag.Int("requests", 50000, "number of requests to issue")
	var keyspaceFlag = flag.Int("keyspace", 1024, "number of distinct keys")
	var workersFlag = flag.Int("n", 1, "number of concurrent workers")
	var seedFlag = flag.Uint("seed", uint(workload.DefaultSeed), "workload seed")
	flag.Parse()

	if *requestsFlag <= 0 || *keyspaceFlag <= 0 || *workersFlag <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	exec := &workload.TCPExecer{Addr: fmt.Sprintf("%s:%d", *hostFlag, *portFlag)}

	fmt.Printf("Target: %s:%d\n", *hostFlag, *portFlag)
	fmt.Printf("Requests: %d, Keyspace: %d\n", *requestsFlag, *keyspaceFlag)

	// Warm-up and populate keys so get has a hit rate.
	failures := workload.Populate(*keyspaceFlag, exec)

	gen := workload.NewGenerator(uint32(*seedFlag), *keyspaceFlag)
	report := workload.NewRunner(gen, *workersFlag).Run(*requestsFlag, exec)
	report.Failures += failures
	report.Print(os.Stdout)

	if report.Failures > 0 {
		os.Exit(2)
	}
}
