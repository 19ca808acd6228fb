package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/coordinator"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

const (
	DefaultAddr = "127.0.0.1:8765"
	DefaultPath = "/mcp"

	shutdownTimeout = 5 * time.Second
)

// Runner serves the timer, tasks and plans over MCP until its context ends.
type Runner struct {
	Service *app.Service
	Timer   *coordinator.Coordinator
	Name    string
	Version string
	Log     *zap.Logger

	Transport Transport

	// Stdin and Stdout default to the process streams for the stdio
	// transport.
	Stdin  io.Reader
	Stdout io.Writer

	HTTPListenAddr   string
	HTTPEndpointPath string
	HTTPServerCert   string
	HTTPServerKey    string
	// OnHTTPListening receives the URL clients should use once the
	// listener is bound.
	OnHTTPListening func(url string)
}

// NewServer builds the MCP server with every tool and resource registered.
func (r Runner) NewServer() (*server.MCPServer, error) {
	if r.Service == nil || r.Timer == nil {
		return nil, errors.New("mcp runner requires a service and a timer")
	}
	name := r.Name
	if name == "" {
		name = "pomo"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Drive a pomodoro timer, its kanban task board and daily pomodoro plans via MCP."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.Service, r.Timer)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv, nil
}

func (r Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Do serves until ctx is cancelled or the transport fails.
func (r Runner) Do(ctx context.Context) error {
	srv, err := r.NewServer()
	if err != nil {
		return err
	}

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return r.serveStdio(ctx, srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) serveStdio(ctx context.Context, srv *server.MCPServer) error {
	in, out := r.Stdin, r.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	stdio := server.NewStdioServer(srv)
	stdio.SetErrorLogger(zap.NewStdLog(r.log().Named("mcp")))
	r.log().Debug("mcp serving on stdio")
	return stdio.Listen(ctx, in, out)
}

func (r Runner) tls() (bool, error) {
	cert, key := r.HTTPServerCert != "", r.HTTPServerKey != ""
	if cert != key {
		return false, errors.New("both http tls cert and key must be provided")
	}
	return cert, nil
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	secure, err := r.tls()
	if err != nil {
		return err
	}
	path := CleanPath(r.HTTPEndpointPath)
	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = DefaultAddr
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv, server.WithEndpointPath(path)))
	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	url := URL(ln.Addr(), path, secure)
	r.log().Info("mcp listening", zap.String("url", url))
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(url)
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	})
	defer stop()

	if secure {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// CleanPath returns p with a leading slash, or DefaultPath when p is blank.
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// URL renders the address clients dial for a bound listener. Unspecified
// hosts are shown as loopback.
func URL(addr net.Addr, path string, secure bool) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return fmt.Sprintf("%s://%s%s", scheme, addr, path)
	}
	host := "127.0.0.1"
	if tcp.IP != nil && !tcp.IP.IsUnspecified() {
		host = tcp.IP.String()
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, strconv.Itoa(tcp.Port)), path)
}
