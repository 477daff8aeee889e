// Package gin serves the question answering API over HTTP with gin.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// DefaultAddr is the address the API listens on when Addr is empty.
const DefaultAddr = ":8000"

// Server exposes an Asker as POST /chat.
type Server struct {
	ln     net.Listener
	server *http.Server
	engine *gin.Engine

	// Addr is the TCP address to listen on.
	Addr string

	// AllowOrigins lists the origins allowed by CORS. Empty allows all.
	AllowOrigins []string

	// Services used by the handlers.
	Asker docchat.Asker
	Index docchat.VectorIndex

	Logger *slog.Logger
}

// NewServer returns a Server with its routes registered.
func NewServer() *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{engine: gin.New()}
	s.engine.Use(
		s.recovery(),
		requestID(),
		s.accessLog(),
		s.cors(),
	)
	s.engine.NoRoute(func(c *gin.Context) {
		s.writeError(c, docchat.Errorf(docchat.ENOTFOUND, "no route for %s %s", c.Request.Method, c.Request.URL.Path))
	})

	s.engine.POST("/chat", s.handleChat)
	s.engine.GET("/healthz", s.handleHealth)

	return s
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() (err error) {
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	if s.ln, err = net.Listen("tcp", addr); err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.server = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	addr := s.ln.Addr().(*net.TCPAddr)
	host := "localhost"
	if !addr.IP.IsUnspecified() {
		host = addr.IP.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// ServeHTTP handles a request without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
