package mcp

import (
	"context"
	"fmt"
	"time"

	"skoview/internal/dashboard"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const instructions = `Tools for the Swedish national service platform (Tjänsteplattformen) statistics dashboard.
Start with 'list_preselects' to see the available views, then call 'get_statistics'.
Selections made with 'toggle_item' and 'apply_bookmark' are kept between calls; 'get_state' shows them.`

// Options configures the tool server.
type Options struct {
	Version      string
	DashboardURL string
	// MermaidCharts allows get_statistics to attach Mermaid charts.
	MermaidCharts bool
}

// Server exposes a dashboard session as MCP tools.
type Server struct {
	session *dashboard.Session
	opts    Options
	server  *mcp.Server
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(session *dashboard.Session, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{session: session, opts: opts}
	s.server = mcp.NewServer(&mcp.Implementation{Name: "skoview", Version: opts.Version}, &mcp.ServerOptions{
		Instructions: instructions,
	})
	s.server.AddReceivingMiddleware(logRequests)
	s.registerTools()
	return s
}

// Serve runs the server over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", s.opts.Version).Msg("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCP returns the underlying protocol server, for custom transports.
func (s *Server) MCP() *mcp.Server { return s.server }

func logRequests(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		start := time.Now()
		res, err := next(ctx, method, req)
		ev := log.Debug()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil {
			ev = ev.Str("tool", call.Params.Name)
		}
		ev.Str("method", method).Dur("elapsed", time.Since(start)).Msg("MCP request")
		return res, err
	}
}

// inputSchema infers the schema of T and restricts the named properties to enums.
func inputSchema[T any](enums map[string][]any) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("mcp: cannot infer input schema: %v", err))
	}
	for name, values := range enums {
		if p, ok := schema.Properties[name]; ok {
			p.Enum = values
		}
	}
	return schema
}
