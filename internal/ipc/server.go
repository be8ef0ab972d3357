package ipc

import (
	"net"

	"github.com/leonardotrapani/scribe/internal/logging"
)

// Handler is invoked once per accepted connection's decoded Request; it
// returns the Response to write back. The session controller implements
// this by funneling the command into its single actor queue and waiting
// for the resulting reply.
type Handler func(Command) Response

// Server accepts connections on a Unix socket and dispatches each decoded
// request to Handler, one goroutine per connection (spec.md §4.7), so
// concurrent IPC clients never block each other on I/O even though their
// requests are ultimately serialized by the Handler's own queue.
type Server struct {
	ln      net.Listener
	handler Handler
}

func NewServer(ln net.Listener, handler Handler) *Server {
	return &Server{ln: ln, handler: handler}
}

// Serve accepts connections until Accept fails, which happens once the
// listener is closed by the caller during shutdown. Callers distinguish
// that expected case from a real accept failure the way daemon.go does,
// by checking their own shutdown context after Serve returns.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	var req Request
	if err := readFrame(conn, &req); err != nil {
		_ = writeFrame(conn, Response{Ok: false, Error: "IpcProtocolError", Message: err.Error()})
		return
	}

	if req.Cmd == CmdPing {
		_ = writeFrame(conn, Response{Ok: true})
		return
	}

	resp := s.handler(req.Cmd)
	if err := writeFrame(conn, resp); err != nil {
		logging.Warnf("ipc: write response: %v", err)
	}
}
