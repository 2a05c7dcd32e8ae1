package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

func init() {
	// Force HTTP/1.1 for WSS connections to prevent HTTP/2 ALPN negotiation.
	// WebSocket upgrade requires HTTP/1.1 semantics which fail under HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// SurrealConfig holds SurrealDB connection configuration.
type SurrealConfig struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // "root" or "database"
}

// Surreal is a Store persisted in SurrealDB, so cached lookups survive
// process restarts. Connection uses an auto-reconnecting WebSocket.
type Surreal struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    SurrealConfig
	logger logger.Logger
}

// Compile-time check that Surreal implements Store.
var _ Store = (*Surreal)(nil)

// lookupSchema defines the cache table. SCHEMALESS keeps payloads opaque.
const lookupSchema = `
DEFINE TABLE IF NOT EXISTS lookup SCHEMALESS;
DEFINE FIELD IF NOT EXISTS payload ON lookup TYPE bytes;
DEFINE FIELD IF NOT EXISTS updated_at ON lookup TYPE datetime;
`

type lookupRow struct {
	Payload []byte `json:"payload"`
}

// NewSurreal connects to SurrealDB and prepares the lookup table.
func NewSurreal(ctx context.Context, cfg SurrealConfig, log *slog.Logger) (*Surreal, error) {
	var sdkLogger logger.Logger
	if log != nil {
		sdkLogger = logger.New(log.Handler())
	} else {
		sdkLogger = logger.New(slog.Default().Handler())
	}

	// surrealcbor handles SurrealDB custom CBOR tags.
	codec := surrealcbor.New()

	// gorillaws requires ws:// or wss:// URL without /rpc suffix (it adds /rpc internally)
	baseURL := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			ws := gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLogger,
			})
			return ws, nil
		},
		5*time.Second,
		codec,
		sdkLogger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 1 * time.Second
	retryer.MaxDelay = 30 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 10
	conn.Retryer = retryer

	sdkLogger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("from connection: %w", err)
	}

	if cfg.AuthLevel == "database" {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
	} else {
		// Default to root auth
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("signin: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use: %w", err)
	}

	if _, err := surrealdb.Query[any](ctx, db, lookupSchema, nil); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("init lookup table: %w", err)
	}

	sdkLogger.Info("SurrealDB lookup cache ready")
	return &Surreal{conn: conn, db: db, cfg: cfg, logger: sdkLogger}, nil
}

// Get returns the cached payload for key.
func (s *Surreal) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := surrealdb.Query[[]lookupRow](ctx, s.db,
		"SELECT payload FROM type::thing('lookup', $key)",
		map[string]any{"key": key},
	)
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return nil, false, nil
	}
	return (*res)[0].Result[0].Payload, true, nil
}

// Set stores the payload under key, replacing any previous value.
func (s *Surreal) Set(ctx context.Context, key string, payload []byte) error {
	_, err := surrealdb.Query[any](ctx, s.db,
		"UPSERT type::thing('lookup', $key) SET payload = $payload, updated_at = time::now()",
		map[string]any{"key": key, "payload": payload},
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close closes the SurrealDB connection.
func (s *Surreal) Close(ctx context.Context) error {
	s.logger.Info("closing SurrealDB connection")
	return s.conn.Close(ctx)
}
