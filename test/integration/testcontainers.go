package integration

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/vault-in-go/pkg/attachment"
	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
	"github.com/doodlesbykumbi/vault-in-go/pkg/db"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/gorm"
)

const testSigningKey = "integration-test-signing-key"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	DataKey       []byte
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
}

// NewTestContext creates a new test context with a PostgreSQL
// testcontainer. Modes:
//   - Binary mode: set VAULT_BINARY to the path of the vaultctl binary
//   - Inline mode (default): the server runs in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	binaryPath := os.Getenv("VAULT_BINARY")
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("VAULT_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("vault_test"),
		tcpostgres.WithUsername("vault"),
		tcpostgres.WithPassword("vault"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://vault:vault@%s:%s/vault_test?sslmode=disable", host, port.Port())

	// Connect with GORM for server wiring and test assertions
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := gormDB.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	// The embedded migrations bring the schema up to date
	if err := db.Migrate(gormDB); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dataKey := make([]byte, keyprovider.DataKeySize)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}

	serverPort := "18080"
	serverURL := fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	var serverProcess *exec.Cmd
	var inlineServer *server.Server
	var cancel context.CancelFunc

	if binaryPath == "" {
		inlineServer, cancel, err = startInlineServer(gormDB, dataKey, serverPort)
	} else {
		serverProcess, cancel, err = startBinary(binaryPath, connStr, dataKey, serverPort)
	}
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		cancel()
		if serverProcess != nil && serverProcess.Process != nil {
			_ = serverProcess.Process.Kill()
		}
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:            gormDB,
		RawDB:         rawDB,
		Container:     pgContainer,
		ServerURL:     serverURL,
		DatabaseURL:   connStr,
		DataKey:       dataKey,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
		Cancel:        cancel,
		ServerProcess: serverProcess,
		InlineServer:  inlineServer,
	}, nil
}

// startInlineServer starts the server in-process (no binary needed)
func startInlineServer(gormDB *gorm.DB, dataKey []byte, port string) (*server.Server, context.CancelFunc, error) {
	_, cancel := context.WithCancel(context.Background())

	portNum, err := strconv.Atoi(port)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("bad port %q: %w", port, err)
	}

	keys, err := keyprovider.NewStatic(dataKey)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	resolver, err := attachment.NewLocalResolver("http://127.0.0.1:19000/blobs")
	if err != nil {
		cancel()
		return nil, nil, err
	}

	conf := &config.VaultConfig{
		ListLimitMax:     100,
		TokenTTL:         480,
		AttachmentURLTTL: 900,
		BindAddress:      "127.0.0.1",
		Port:             portNum,
	}

	s := server.NewServer(gormstore.NewStore(gormDB), keys, resolver, conf, []byte(testSigningKey), gormDB)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	return s, cancel, nil
}

// startBinary starts the vaultctl server binary
func startBinary(binaryPath, dbURL string, dataKey []byte, port string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// --no-migrate since the schema is already prepared
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate")
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"VAULT_DATA_KEY="+base64.StdEncoding.EncodeToString(dataKey),
		"VAULT_TOKEN_SIGNING_KEY="+testSigningKey,
		"VAULT_BIND_ADDRESS=127.0.0.1",
		"VAULT_PORT="+port,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// waitForServer polls the status endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
