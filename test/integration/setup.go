package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bistro/internal/config"
	"bistro/internal/kv"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestKV represents a test key-value backend instance.
type TestKV struct {
	Container testcontainers.Container
	Store     kv.Store
	URL       string
}

// SetupTestKV starts a JetStream-enabled NATS test container and opens a
// key-value bucket on it.
func SetupTestKV(t *testing.T) *TestKV {
	t.Helper()

	ctx := context.Background()

	// Create NATS container with JetStream enabled
	natsContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			Cmd:          []string{"-js"},
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor: wait.ForLog("Server is ready").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start NATS container: %v", err)
	}

	host, err := natsContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := natsContainer.MappedPort(ctx, "4222/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	url := fmt.Sprintf("nats://%s:%s", host, port.Port())

	logger := zerolog.Nop()
	store, closeStore, err := kv.NewNATS(ctx, config.NATSConfig{
		Enabled: true,
		URL:     url,
		Bucket:  "bistro-test",
	}, logger)
	if err != nil {
		t.Fatalf("failed to open key-value bucket: %v", err)
	}

	t.Cleanup(func() {
		closeStore()
		if err := natsContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestKV{
		Container: natsContainer,
		Store:     store,
		URL:       url,
	}
}
