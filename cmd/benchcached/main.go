package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taiki-okano/benchcached/pkg/config"
	"github.com/taiki-okano/benchcached/pkg/server"
	"github.com/taiki-okano/benchcached/pkg/store"
)

// Listens for SIGINT or SIGTERM and stops the accept loop.
func setupCloseHandler(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		srv.Stop()
	}()
}

// Start the cache server.
func main() {
	// Set up flags.
	var portFlag = flag.Int("p", config.DefaultPort, "port number")
	var timeoutFlag = flag.Int("timeout", 0, "seconds before shutdown (non-positive = run forever)")
	var sizeFlag = flag.Int("size", config.DefaultTableSize, "table capacity (power of two)")
	var debugFlag = flag.Bool("debug", false, "log each request")
	flag.Parse()

	// A table that cannot be created is fatal; there is nothing to serve.
	table, err := store.NewTable(*sizeFlag, nil)
	if err != nil {
		log.Fatal(err)
	}

	srv, err := server.New(*portFlag, table, *debugFlag)
	if err != nil {
		log.Fatal(err)
	}
	setupCloseHandler(srv)

	fmt.Printf("%v server started listening on localhost:%v\n", config.Name,
		srv.Addr().(*net.TCPAddr).Port)

	if err := srv.Run(time.Duration(*timeoutFlag) * time.Second); err != nil {
		log.Fatal(err)
	}
	if n := srv.Failures(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d operations failed\n", n)
		os.Exit(2)
	}
}
