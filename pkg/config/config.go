// Global benchcached config.
package config

import "time"

// Name of the service.
const Name = "benchcached"

// Port the server listens on unless told otherwise.
const DefaultPort = 12345

// Default capacity of a fixed-size table.
const DefaultTableSize = 1024

// The maximum number of digits scanned for a frame's length prefix.
const MaxLengthDigits = 8

// How long a client waits for a get reply before treating the key as
// not found. The server sends nothing on a miss, so the wait has to be
// bounded on the client side.
const ReplyTimeout = 200 * time.Millisecond

// Size of the buffer a client reads get replies into.
const ReplyBufferSize = 256
