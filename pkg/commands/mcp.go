package commands

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/runner/daemon"
	"tableflip.dev/pomo/pkg/runner/mcp"
	"tableflip.dev/pomo/pkg/store"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport   string
		httpHost    string
		httpPort    int
		httpPath    string
		httpTLSCert string
		httpTLSKey  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the timer, tasks and day plans
through the Model Context Protocol. The timer keeps running while the server
is up.`,
		Example: `
pomo mcp
pomo mcp --transport stdio
pomo mcp --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := mcp.Runner{
				Name:             "pomo",
				Version:          version,
				Log:              logger,
				HTTPEndpointPath: mcp.CleanPath(httpPath),
				HTTPServerCert:   strings.TrimSpace(httpTLSCert),
				HTTPServerKey:    strings.TrimSpace(httpTLSKey),
			}

			switch strings.ToLower(strings.TrimSpace(transport)) {
			case "", string(mcp.TransportHTTP):
				addr, err := mcpAddr(cmd, httpHost, httpPort)
				if err != nil {
					return err
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = addr
				runner.OnHTTPListening = func(url string) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP HTTP server listening on %s\n", url)
				}
			case string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
				runner.Stdin = cmd.InOrStdin()
				runner.Stdout = cmd.OutOrStdout()
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}

			ctx, stop := signalContext(cmd)
			defer stop()
			return withEnv(cmd, func(_ context.Context, e *env) error {
				runner.Service = e.svc
				runner.Timer = e.timer
				d := daemon.Daemon{
					Coordinator: e.timer,
					Log:         logger,
					Services:    []daemon.Service{runner.Do},
				}
				return d.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&httpHost, "http-host", "", "host/interface for HTTP transport (default from config mcp.addr)")
	cmd.Flags().IntVar(&httpPort, "http-port", -1, "port for HTTP transport, 0 for random (default from config mcp.addr)")
	cmd.Flags().StringVar(&httpPath, "http-path", mcp.DefaultPath, "HTTP endpoint path")
	cmd.Flags().StringVar(&httpTLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpTLSKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

// mcpAddr resolves the listen address from the flags, falling back to the
// mcp.addr config key.
func mcpAddr(cmd *cobra.Command, host string, port int) (string, error) {
	addr := mcp.DefaultAddr
	if cfg, err := store.LoadConfig(); err == nil && cfg.MCPAddr() != "" {
		addr = cfg.MCPAddr()
	}
	cfgHost, cfgPort, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid mcp.addr %q: %w", addr, err)
	}
	if cmd.Flags().Changed("http-host") {
		cfgHost = strings.TrimSpace(host)
	}
	if cmd.Flags().Changed("http-port") {
		if port < 0 || port > 65535 {
			return "", fmt.Errorf("invalid http-port %d", port)
		}
		cfgPort = strconv.Itoa(port)
	}
	if cfgHost == "" {
		cfgHost = "127.0.0.1"
	}
	return net.JoinHostPort(cfgHost, cfgPort), nil
}
