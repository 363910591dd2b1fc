// Package testutil starts throwaway dependencies for integration tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cloo-solutions/docqa/internal/database"
)

const (
	pgvectorImage = "pgvector/pgvector:0.8.1-pg18"
	rustfsImage   = "rustfs/rustfs:latest"

	// S3AccessKey and S3SecretKey are the credentials of the RustFS container.
	S3AccessKey = "rustfsadmin"
	S3SecretKey = "rustfsadmin"
)

// startContainer runs req and returns its host and mapped port. The container is removed when t ends.
func startContainer(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate %s: %v", req.Image, err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get host of %s: %v", req.Image, err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("failed to get port %s of %s: %v", port, req.Image, err)
	}
	return host, mapped.Port()
}

// Postgres is a running pgvector-enabled PostgreSQL.
type Postgres struct {
	URL string
}

// StartPostgres starts PostgreSQL with the pgvector extension available.
func StartPostgres(ctx context.Context, t *testing.T) *Postgres {
	t.Helper()

	host, port := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        pgvectorImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "docqa",
			"POSTGRES_PASSWORD": "docqa",
			"POSTGRES_DB":       "docqa",
		},
		// postgres restarts once after init
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}, "5432")

	return &Postgres{
		URL: fmt.Sprintf("postgres://docqa:docqa@%s:%s/docqa?sslmode=disable", host, port),
	}
}

// MigratedPool applies the migrations in migrationsDir and returns a pool closed when t ends.
func (p *Postgres) MigratedPool(ctx context.Context, t *testing.T, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	abs, err := filepath.Abs(migrationsDir)
	if err != nil {
		t.Fatalf("failed to resolve migrations dir: %v", err)
	}
	if err := database.Migrate(p.URL, "file://"+abs); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: p.URL, MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// ObjectStore is a running S3-compatible RustFS server.
type ObjectStore struct {
	Endpoint string
}

// StartObjectStore starts RustFS with the S3AccessKey/S3SecretKey credentials.
func StartObjectStore(ctx context.Context, t *testing.T) *ObjectStore {
	t.Helper()

	host, port := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        rustfsImage,
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": S3AccessKey,
			"RUSTFS_SECRET_KEY": S3SecretKey,
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	}, "9000")

	return &ObjectStore{Endpoint: fmt.Sprintf("http://%s:%s", host, port)}
}
