package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Server accepts TCP subscribers and registers them with the hub.
type Server struct {
	Addr string
	Hub  *Hub

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	zap.L().Info("[log-tail] listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// ListenAddr is the bound address once Listen has succeeded.
func (s *Server) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) Run() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Serve accepts until Close. It returns nil after Close.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("log-tail: Serve called before Listen")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			zap.L().Warn("[log-tail] accept failed", zap.Error(err))
			time.Sleep(100 * time.Millisecond)
			continue
		}

		// welcome goes out before Add so it never races a broadcast
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(s.Hub.welcome("tcp")); err != nil {
			_ = conn.Close()
			continue
		}
		s.Hub.Add(conn)
		zap.L().Info("[log-tail] client connected", zap.String("remote", conn.RemoteAddr().String()))

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				zap.L().Info("[log-tail] client disconnected", zap.String("remote", c.RemoteAddr().String()))
			}()

			// incoming lines are ignored; reading detects disconnects
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
