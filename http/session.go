package http

import (
	"bufio"
	"errors"
	"net"

	"github.com/google/uuid"

	"github.com/FortovEgor/ServeMe/cache"
	"github.com/FortovEgor/ServeMe/filesystem"
	"github.com/FortovEgor/ServeMe/logging"
)

// State tracks where a session is in its single request/response exchange.
type State uint8

const (
	StateReading State = iota
	StateRouting
	StateWriting
	StateClosed
)

func (state State) String() string {
	switch state {
	case StateReading:
		return "reading"
	case StateRouting:
		return "routing"
	case StateWriting:
		return "writing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// halfCloser is the shutdown surface of *net.TCPConn.
type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

// Session owns one accepted connection through exactly one request/response
// exchange. The router, cache, filesystem and logger are shared with every
// other session; everything else is per-connection.
type Session struct {
	id     string
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	state  State

	router *Router
	cache  *cache.ResponseCache
	fs     filesystem.Filesystem
	logger *logging.Logger
}

// NewSession wraps an accepted connection. A nil responseCache disables
// caching; the session then renders on every request.
func NewSession(conn net.Conn, router *Router, responseCache *cache.ResponseCache, fs filesystem.Filesystem, logger *logging.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
		state:  StateReading,
		router: router,
		cache:  responseCache,
		fs:     fs,
		logger: logger,
	}
}

// State reports where the session currently is.
func (session *Session) State() State {
	return session.state
}

// Serve runs the exchange to completion and closes the connection. It never
// returns an error; every failure is logged and ends the session alone.
func (session *Session) Serve() {
	defer session.close()

	session.logger.Debugf("session %s: accepted from %s", session.id, session.conn.RemoteAddr())

	var request Request
	if err := request.Parse(session.reader); err != nil {
		if errors.Is(err, ErrMalformedRequestLine) {
			session.logger.Errorf("session %s: %v", session.id, err)
		} else {
			session.logger.Errorf("session %s: read failed: %v", session.id, err)
		}
		return
	}

	session.state = StateRouting
	rendered := session.route(&request)

	session.state = StateWriting
	if err := session.write(rendered); err != nil {
		session.logger.Errorf("session %s: write failed: %v", session.id, err)
		return
	}

	session.logger.Infof("session %s: %s %s served (%d bytes)", session.id, request.Method, request.Path, len(rendered))

	// The client sees EOF in both directions before the close releases the
	// descriptor.
	if conn, ok := session.conn.(halfCloser); ok {
		conn.CloseWrite()
		conn.CloseRead()
	}
}

// route turns a parsed request into the full response bytes. Anything that
// does not resolve to a registered route becomes the fixed 404 message.
func (session *Session) route(request *Request) []byte {
	method, ok := ParseMethod(request.Method)
	if !ok {
		session.logger.Errorf("session %s: unsupported method %q", session.id, request.Method)
		return RenderNotFound()
	}

	source, found := session.router.Lookup(request.Path, method)
	if !found {
		session.logger.Errorf("session %s: no route for %s %s", session.id, request.Method, request.Path)
		return RenderNotFound()
	}

	render := func() []byte {
		return session.render(request, source)
	}

	if session.cache == nil {
		return render()
	}

	return session.cache.GetOrRender(request.Path, method.String(), render)
}

// render resolves the source and builds the 200 message. A failed file load
// degrades to an empty body; the request still succeeds.
func (session *Session) render(request *Request, source Source) []byte {
	body, err := source.Resolve(session.fs)
	if err != nil {
		session.logger.Errorf("session %s: loading %s %s: %v", session.id, request.Method, request.Path, err)
	}

	return RenderOK(body, source.ContentType)
}

func (session *Session) write(rendered []byte) error {
	if _, err := session.writer.Write(rendered); err != nil {
		return err
	}

	return session.writer.Flush()
}

func (session *Session) close() {
	session.state = StateClosed
	session.conn.Close()
}
