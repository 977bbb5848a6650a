package transport

import (
	"encoding/json"
	"net"
	"os"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/nrayman/satlink/message"
	"github.com/nrayman/satlink/simulation"
	"github.com/nrayman/satlink/stats"
)

// StatsSink drains the simulation's statistics channel and either
// broadcasts each record over TCP (port 2001) or appends it, one JSON
// record per line, to FilePath (spec.md §6).
type StatsSink struct {
	Addr     string
	FilePath string
	State    *simulation.State
	Logger   log.Logger

	mu    sync.Mutex
	conns []net.Conn
}

// Run drains the channel until it closes. With FilePath set it appends to
// that file; otherwise it listens on Addr and broadcasts every record to
// the connected clients. It returns a non-nil error only when the file
// cannot be opened or the listener cannot be bound.
func (s *StatsSink) Run() error {
	if s.FilePath != "" {
		return s.runFile()
	}
	return s.runTCP()
}

func (s *StatsSink) runFile() error {
	f, err := os.OpenFile(s.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for rec := range s.State.StatsChannel() {
		encoded := message.EncodeStatistics(rec.(stats.Record))
		body, err := marshalLine(encoded)
		if err != nil {
			s.Logger.Log("level", "error", "event", "marshal_statistics", "err", err)
			continue
		}
		if _, err := f.Write(body); err != nil {
			s.Logger.Log("level", "error", "event", "write_statistics_file", "err", err)
		}
	}
	return nil
}

func (s *StatsSink) runTCP() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.Logger.Log("level", "info", "event", "listening", "addr", s.Addr)
	go s.acceptLoop(ln)

	for rec := range s.State.StatsChannel() {
		encoded := message.EncodeStatistics(rec.(stats.Record))
		s.broadcast(encoded)
	}
	return nil
}

func (s *StatsSink) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
	}
}

func (s *StatsSink) broadcast(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.conns[:0]
	for _, c := range s.conns {
		if err := WriteFrame(c, v); err != nil {
			c.Close()
			continue
		}
		live = append(live, c)
	}
	s.conns = live
}

func marshalLine(v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}
