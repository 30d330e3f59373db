package workload

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/taiki-okano/benchcached/pkg/config"
	"github.com/taiki-okano/benchcached/pkg/protocol"
	"github.com/taiki-okano/benchcached/pkg/store"
)

// An Execer runs one op against a key-value store, local or remote.
type Execer interface {
	Do(op Op) error
}

// A TableExecer runs ops directly against an in-process table. Not safe
// for concurrent use; drive it with a single worker.
type TableExecer struct {
	Table *store.Table
}

// Do dispatches the op to the table.
func (e *TableExecer) Do(op Op) error {
	switch op.Kind {
	case OpGet:
		e.Table.Get(op.Key)
		return nil
	case OpSet:
		return e.Table.Set(op.Key, op.Value)
	default:
		e.Table.Delete(op.Key)
		return nil
	}
}

// A TCPExecer issues each op as one framed request on its own
// connection, matching the server's one-request-per-connection model.
// Safe for concurrent use since every call dials afresh.
type TCPExecer struct {
	Addr string // host:port of the server
}

// Do sends the op and, for a get, waits briefly for the reply. The
// server sends nothing on a miss, so a read timeout or an early close
// counts as not-found rather than a failure.
func (e *TCPExecer) Do(op Op) error {
	conn, err := net.Dial("tcp", e.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(protocol.EncodeFrame(op.Body())); err != nil {
		return err
	}
	if op.Kind != OpGet {
		return nil
	}

	if err := conn.SetReadDeadline(time.Now().Add(config.ReplyTimeout)); err != nil {
		return err
	}
	reply := make([]byte, config.ReplyBufferSize)
	if _, err := conn.Read(reply); err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
