package clickhouse_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"token-trader/internal/domain"
	chstore "token-trader/internal/storage/clickhouse"
	"token-trader/internal/storage/migrations"
)

// setupTestDB starts a ClickHouse container, applies the embedded
// migrations and returns a ready connection plus a cleanup function.
func setupTestDB(t *testing.T) (*chstore.Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://default:@%s:%s/trader_test", host, port.Port())

	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}
	return conn, cleanup
}

func TestTickStoreInsertBulkAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	s := chstore.NewTickStore(conn)
	ctx := context.Background()

	points := []*domain.TickPoint{
		{TokenAddress: "tokA", TimestampMs: 2000, Price: 0.0021, Liquidity: 45000, Volume24h: 80000, ProfitPct: 5},
		{TokenAddress: "tokA", TimestampMs: 1000, Price: 0.002, Liquidity: 45000, Volume24h: 80000, ProfitPct: 0},
		{TokenAddress: "tokB", TimestampMs: 1500, Price: 0.01, Liquidity: 60000, Volume24h: 90000, ProfitPct: -2},
	}
	require.NoError(t, s.InsertBulk(ctx, points))

	got, err := s.GetByToken(ctx, "tokA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1000), got[0].TimestampMs)
	assert.Equal(t, 0.002, got[0].Price)
	assert.Equal(t, int64(2000), got[1].TimestampMs)
	assert.InDelta(t, 5, got[1].ProfitPct, 1e-9)
}

func TestTickStoreEmptyInsert(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	s := chstore.NewTickStore(conn)
	assert.NoError(t, s.InsertBulk(context.Background(), nil))

	got, err := s.GetByToken(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, got)
}
