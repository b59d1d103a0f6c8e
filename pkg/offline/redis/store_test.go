package redis

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
)

const (
	redisImage = "redis:7"
	redisPort  = "6379/tcp"
)

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	if !isDockerRunning(ctx) {
		t.Skip("Docker is not running, skipping integration test")
	}

	addr, terminate, err := setupRedisContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup redis container: %v", err)
	}
	defer terminate()

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("failed to parse endpoint %q: %v", addr, err)
	}
	port, _ := strconv.Atoi(portStr)

	store, err := NewConnection(&settings.Redis{Host: host, Port: port})
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	defer store.Close()
	t.Log("Successfully connected to Redis container")

	t.Run("load_missing", func(t *testing.T) {
		doc, ok, err := store.Load(ctx, "nobody")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if ok || doc != nil {
			t.Errorf("Load(missing) = (%v, %v), want (nil, false)", doc, ok)
		}
	})

	t.Run("save_and_load", func(t *testing.T) {
		want := []byte(`{"stats":[{"name":"kills","type":"number","number":7}]}`)
		if err := store.Save(ctx, "u1", want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, ok, err := store.Load(ctx, "u1")
		if err != nil || !ok {
			t.Fatalf("Load = (%v, %v), want the saved document", ok, err)
		}
		if string(got) != string(want) {
			t.Errorf("Load = %s, want %s", got, want)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := store.Save(ctx, "u1", []byte(`{"stats":[]}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, ok, err := store.Load(ctx, "u1")
		if err != nil || !ok {
			t.Fatalf("Load = (%v, %v), want ok", ok, err)
		}
		if string(got) != `{"stats":[]}` {
			t.Errorf("Load = %s, want the overwritten document", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "u1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, ok, err := store.Load(ctx, "u1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if ok {
			t.Error("document still present after Delete")
		}
	})

	t.Run("delete_missing_is_noop", func(t *testing.T) {
		if err := store.Delete(ctx, "nobody"); err != nil {
			t.Errorf("Delete(missing) = %v, want nil", err)
		}
	})
}

func setupRedisContainer(ctx context.Context) (string, func(), error) {
	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{redisPort},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		container.Terminate(ctx)
		return "", nil, fmt.Errorf("failed to get endpoint: %w", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("failed to terminate container: %v\n", err)
		}
	}

	return endpoint, terminate, nil
}

func isDockerRunning(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "info")
	if err := cmd.Run(); err != nil {
		return false
	}
	return true
}
