// Package stream speaks the platform's websocket protocol: JSON frames on a
// single socket, multiplexed into named substreams that carry container logs,
// build logs and terminal sessions.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var ErrClosed = errors.New("stream session closed")

// Conn is the part of *websocket.Conn a Session uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session is one websocket connection with its substreams. Writes are
// serialized and synchronous: a Write returns once the frame has been handed
// to the transport.
type Session struct {
	conn   Conn
	errOut io.Writer

	writeMu sync.Mutex

	mu         sync.Mutex
	substreams map[string]*Substream

	closing   atomic.Bool
	closeConn sync.Once
	finished  sync.Once
	done      chan struct{}
	err       error
}

// NewSession starts reading frames from conn. Error payloads sent on the
// socket itself are printed to errOut.
func NewSession(conn Conn, errOut io.Writer) *Session {
	if errOut == nil {
		errOut = io.Discard
	}
	s := &Session{
		conn:       conn,
		errOut:     errOut,
		substreams: make(map[string]*Substream),
		done:       make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// Done is closed when the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err reports why the session shut down. It is nil after Close or a clean
// close from the server.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Write sends a stream request.
func (s *Session) Write(env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	log.Debug("stream request", "event", env.Event)
	return s.writeText(data)
}

func (s *Session) writeText(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write to stream: %w", err)
	}
	return nil
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeConn.Do(func() {
		s.closing.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
		s.finish(nil)
	})
	return err
}

func (s *Session) finish(err error) {
	s.finished.Do(func() {
		s.err = err
		close(s.done)
	})
}

func (s *Session) readLoop() {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.finish(s.readError(err))
			return
		}
		s.dispatch(msg)
	}
}

func (s *Session) readError(err error) error {
	if s.closing.Load() {
		return nil
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Debug("stream closed by server")
		return nil
	}
	return fmt.Errorf("read from stream: %w", err)
}

func (s *Session) dispatch(msg []byte) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return
	}

	if msg[0] == '"' {
		var text string
		if err := json.Unmarshal(msg, &text); err != nil {
			log.Debug("discarding frame", "err", err)
			return
		}
		s.heartbeat(text)
		return
	}

	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		log.Debug("discarding frame", "err", err, "frame", truncate(string(msg), 64))
		return
	}

	if f.Substream != nil {
		s.route(*f.Substream, f.Args)
		return
	}
	if !isNull(f.Error) {
		fmt.Fprintln(s.errOut, errorText(f.Error))
	}
}

func (s *Session) heartbeat(text string) {
	n, ok := strings.CutPrefix(text, pingPrefix)
	if !ok {
		return
	}
	pong, _ := json.Marshal(pongPrefix + n)
	if err := s.writeText(pong); err != nil {
		log.Debug("failed to answer heartbeat", "err", err)
	}
}

func (s *Session) route(id string, args []json.RawMessage) {
	s.mu.Lock()
	ss := s.substreams[id]
	s.mu.Unlock()
	if ss == nil {
		log.Debug("frame for unknown substream", "substream", id)
		return
	}
	if len(args) == 0 {
		return
	}

	name, err := argName(args[0])
	if err != nil {
		log.Debug("discarding substream frame", "substream", id, "err", err)
		return
	}

	switch name {
	case argData:
		if len(args) < 2 {
			return
		}
		if ss.onData != nil {
			ss.onData(payloadBytes(args[1]))
		}
	case argEnd:
		s.mu.Lock()
		delete(s.substreams, id)
		s.mu.Unlock()
		ss.markEnded()
	case argError:
		if len(args) > 1 {
			fmt.Fprintln(s.errOut, errorText(args[1]))
		}
	}
}

// Substream registers a child stream. It must be registered before the
// request that makes the server write to it.
func (s *Session) Substream(id string, onData func(p []byte)) *Substream {
	ss := &Substream{
		id:      id,
		session: s,
		onData:  onData,
		ended:   make(chan struct{}),
	}
	s.mu.Lock()
	s.substreams[id] = ss
	s.mu.Unlock()
	return ss
}

// Substream is a named channel inside a Session.
type Substream struct {
	id      string
	session *Session
	onData  func(p []byte)
	ended   chan struct{}
	endOnce sync.Once
}

// ID returns the substream id.
func (ss *Substream) ID() string { return ss.id }

// Ended is closed when the server ends the substream.
func (ss *Substream) Ended() <-chan struct{} { return ss.ended }

func (ss *Substream) markEnded() {
	ss.endOnce.Do(func() { close(ss.ended) })
}

// Write sends p as a data packet. It blocks until the frame is written.
func (ss *Substream) Write(p []byte) (int, error) {
	data, err := encodePacket(ss.id, argData, string(p))
	if err != nil {
		return 0, err
	}
	if err := ss.session.writeText(data); err != nil {
		return 0, err
	}
	return len(p), nil
}

// End tells the server no more data follows from this side.
func (ss *Substream) End() error {
	data, err := encodePacket(ss.id, argEnd)
	if err != nil {
		return err
	}
	return ss.session.writeText(data)
}

// wait blocks until ss ends, the session shuts down or ctx is done.
func wait(ctx context.Context, s *Session, ss *Substream) error {
	select {
	case <-ss.Ended():
		return nil
	case <-s.Done():
		select {
		case <-ss.Ended():
			return nil
		default:
		}
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
