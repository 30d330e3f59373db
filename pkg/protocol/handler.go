package protocol

import (
	"log"
	"net"
	"sync/atomic"

	"github.com/taiki-okano/benchcached/pkg/store"
)

// A Handler serves the one-request-per-connection protocol against a
// table. The table is handed in at construction and every mutation goes
// through its operations; the handler's only own state is a failure
// counter.
type Handler struct {
	table    *store.Table
	debug    bool
	failures uint64
}

// NewHandler returns a handler over the given table. debug enables
// per-request logging to stderr.
func NewHandler(table *store.Table, debug bool) *Handler {
	return &Handler{table: table, debug: debug}
}

// Serve reads one request from conn, dispatches it to the table, and
// writes the raw value bytes back if the request was a get that hit.
// Closing conn is the caller's job.
//
// A dropped set is counted and swallowed, since the wire has no way to
// report it; the returned error is non-nil only for I/O failures, which
// the caller should treat as fatal.
func (h *Handler) Serve(conn net.Conn) error {
	req, err := ReadRequest(conn)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	switch req.Command {
	case CmdGet:
		value, found := h.table.Get(req.Key)
		h.debugf("get %s (found=%t)", req.Key, found)
		if !found {
			return nil
		}
		if _, err := conn.Write([]byte(value)); err != nil {
			return err
		}
	case CmdSet:
		if err := h.table.Set(req.Key, req.Value); err != nil {
			atomic.AddUint64(&h.failures, 1)
			h.debugf("set %s dropped: %v", req.Key, err)
			return nil
		}
		h.debugf("set %s -> %s", req.Key, req.Value)
	case CmdDel:
		h.table.Delete(req.Key)
		h.debugf("del %s", req.Key)
	}
	return nil
}

// Failures returns how many table operations have failed since the
// handler was created.
func (h *Handler) Failures() uint64 {
	return atomic.LoadUint64(&h.failures)
}

func (h *Handler) debugf(format string, args ...interface{}) {
	if h.debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
