// Package app wires the contacts HTTP surface, storage and lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/contacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/contacts/internal/platform/timeouts"
	"github.com/louisbranch/contacts/internal/services/contacts/storage"
	contactssqlite "github.com/louisbranch/contacts/internal/services/contacts/storage/sqlite"
	contactsmodule "github.com/louisbranch/contacts/internal/services/contacts/web/modules/contacts"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/flash"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/httpx"
	webi18n "github.com/louisbranch/contacts/internal/services/contacts/web/platform/i18n"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/observability"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/pagerender"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/requestmeta"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/sessioncookie"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/net/netutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the gRPC health service name reported for the web surface.
const HealthServiceName = "contacts.v1.Web"

// Config defines startup inputs for the contacts service.
type Config struct {
	HTTPAddr            string
	DBPath              string
	SessionSecret       string
	TrustForwardedProto bool
	GRPCHealthAddr      string
	MaxConnections      int
	// Logger receives request logs; nil uses the standard logger.
	Logger *log.Logger
	// Now overrides the clock used for created_at.
	Now func() time.Time
}

// Server hosts the contacts HTTP surface and lifecycle.
type Server struct {
	httpListener net.Listener
	httpServer   *http.Server
	grpcListener net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	store        *contactssqlite.Store
	closeOnce    sync.Once
}

// NewHandler builds the root handler over store.
func NewHandler(cfg Config, store storage.ContactStore) (http.Handler, error) {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load locale catalogs: %w", err)
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	sessions, err := sessioncookie.NewManager(cfg.SessionSecret, policy)
	if err != nil {
		return nil, fmt.Errorf("configure sessions: %w", err)
	}
	mailbox := flash.NewMailbox(timeouts.NoticeTTL)
	renderer := pagerender.New(webi18n.NewResolver(bundle), mailbox)

	opts := []contactsmodule.Option{
		contactsmodule.WithRenderer(renderer),
		contactsmodule.WithNotices(mailbox),
		contactsmodule.WithClock(cfg.Now),
	}
	if store != nil {
		opts = append(opts, contactsmodule.WithStore(store))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	mux := http.NewServeMux()
	module := contactsmodule.New(opts...)
	module.Mount(mux)
	if !module.Healthy() {
		logger.Printf("module %s mounted without a store; data routes report unavailable", module.ID())
	}
	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(mux),
		observability.RequestLogger(logger),
		sessions.Middleware(),
	), nil
}

// NewServer validates config, opens storage and binds listeners.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.MaxConnections < 0 {
		return nil, errors.New("max connections must not be negative")
	}
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("compose contacts handler: %w", err)
	}

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}
	if cfg.MaxConnections > 0 {
		httpListener = netutil.LimitListener(httpListener, cfg.MaxConnections)
	}

	s := &Server{
		httpListener: httpListener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}

	if grpcAddr := strings.TrimSpace(cfg.GRPCHealthAddr); grpcAddr != "" {
		grpcListener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
		}
		s.grpcListener = grpcListener
		s.grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		s.health = health.NewServer()
		grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
		s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		s.health.SetServingStatus(HealthServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
	return s, nil
}

// Addr returns the HTTP listener address.
func (s *Server) Addr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCHealthAddr returns the gRPC health listener address, if enabled.
func (s *Server) GRPCHealthAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// ListenAndServe serves traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("contacts server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	defer s.Close()

	serveErr := make(chan error, 2)
	go func() {
		serveErr <- s.httpServer.Serve(s.httpListener)
	}()
	var grpcDone chan struct{}
	if s.grpcServer != nil {
		grpcDone = make(chan struct{})
		go func() {
			defer close(grpcDone)
			if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				serveErr <- fmt.Errorf("serve grpc health: %w", err)
			}
		}()
		s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		s.health.SetServingStatus(HealthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
		log.Printf("grpc health listening at %s", s.GRPCHealthAddr())
	}
	log.Printf("contacts listening at http://%s", s.Addr())

	var result error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			result = fmt.Errorf("shutdown contacts http server: %w", err)
		}
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = fmt.Errorf("serve contacts http: %w", err)
		}
	}
	if s.grpcServer != nil {
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		<-grpcDone
	}
	return result
}

// Close releases listeners and storage.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.health != nil {
			s.health.Shutdown()
		}
		if s.grpcServer != nil {
			s.grpcServer.Stop()
		}
		if s.grpcListener != nil {
			_ = s.grpcListener.Close()
		}
		if s.httpServer != nil {
			_ = s.httpServer.Close()
		}
		if s.httpListener != nil {
			_ = s.httpListener.Close()
		}
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				log.Printf("close contacts store: %v", err)
			}
		}
	})
}

func openStore(path string) (*contactssqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := contactssqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contacts sqlite store: %w", err)
	}
	return store, nil
}
