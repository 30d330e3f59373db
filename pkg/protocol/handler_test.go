package protocol_test

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiki-okano/benchcached/pkg/protocol"
	"github.com/taiki-okano/benchcached/pkg/store"
)

// =====================================================================
// HELPERS
// =====================================================================

// serveFrame runs one request/reply cycle over a loopback connection
// and returns whatever reply bytes the handler wrote. The client half
// closes its write side after the frame, like a peer that sent
// everything it has.
func serveFrame(t *testing.T, handler *protocol.Handler, frame string) []byte {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to listen")
	defer listener.Close()

	done := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			done <- err
			return
		}
		err = handler.Serve(conn)
		conn.Close()
		done <- err
	}()

	client, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err, "failed to dial")
	defer client.Close()

	_, err = client.Write([]byte(frame))
	require.NoError(t, err, "failed to write frame")
	require.NoError(t, client.(*net.TCPConn).CloseWrite())

	reply, err := io.ReadAll(client)
	require.NoError(t, err, "failed to read reply")
	require.NoError(t, <-done, "serve failed")
	return reply
}

// =====================================================================
// TESTS
// =====================================================================

func TestHandlerDispatch(t *testing.T) {
	table, err := store.NewTable(64, nil)
	require.NoError(t, err)
	handler := protocol.NewHandler(table, false)

	t.Run("GetMiss", func(t *testing.T) {
		reply := serveFrame(t, handler, "7:get:foo")
		assert.Empty(t, reply, "a miss sends no reply bytes")
	})

	t.Run("SetThenGet", func(t *testing.T) {
		reply := serveFrame(t, handler, "9:set:a:bcd")
		assert.Empty(t, reply, "set never replies")

		reply = serveFrame(t, handler, "5:get:a")
		assert.Equal(t, []byte("bcd"), reply, "get hit replies with the raw value")
	})

	t.Run("OverdeclaredSet", func(t *testing.T) {
		// Declared length exceeds the body; the bytes that arrived
		// before the close are used as the body.
		serveFrame(t, handler, "11:set:b:xyz")
		value, found := table.Get("b")
		assert.True(t, found)
		assert.Equal(t, "xyz", value)
	})

	t.Run("Del", func(t *testing.T) {
		reply := serveFrame(t, handler, "5:del:a")
		assert.Empty(t, reply, "del never replies")
		_, found := table.Get("a")
		assert.False(t, found)
	})

	t.Run("MalformedIgnored", func(t *testing.T) {
		before := table.Len()
		for _, frame := range []string{"3:xyz", "0:", "4:set:", "9:put:a:bcd", "q", ""} {
			reply := serveFrame(t, handler, frame)
			assert.Empty(t, reply, "frame %q must not produce a reply", frame)
		}
		assert.Equal(t, before, table.Len(), "malformed frames must not mutate the table")
	})
}

func TestHandlerCountsDroppedSets(t *testing.T) {
	// A two-slot table exhausts immediately.
	table, err := store.NewTable(2, nil)
	require.NoError(t, err)
	handler := protocol.NewHandler(table, false)

	serveFrame(t, handler, "7:set:a:1")
	serveFrame(t, handler, "7:set:b:2")
	assert.Equal(t, uint64(0), handler.Failures())

	// The third distinct key finds no slot; the wire stays silent but
	// the failure is counted.
	reply := serveFrame(t, handler, "7:set:c:3")
	assert.Empty(t, reply)
	assert.Equal(t, uint64(1), handler.Failures())

	_, found := table.Get("c")
	assert.False(t, found, "dropped set leaves no trace")
}
