//go:build integration

package admins

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedis_AddAndList(t *testing.T) {
	client := startRedis(t)
	reg := NewRedis(client, zap.NewNop())
	t.Cleanup(func() { reg.Close() })
	ctx := context.Background()

	require.NoError(t, reg.Add(ctx, 200))
	require.NoError(t, reg.Add(ctx, 100))
	require.NoError(t, reg.Add(ctx, 200))
	require.NoError(t, client.SAdd(ctx, Key, "garbage").Err())

	ids, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200}, ids)
}
