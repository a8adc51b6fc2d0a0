package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type fakeMongo struct{ err error }

func (f fakeMongo) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type fakeRedis struct{ err error }

func (f fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

func TestHealthHandler_Liveness(t *testing.T) {
	rec, err := do(t, NewHealthHandler().Liveness, call{method: http.MethodGet, target: "/health"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthDependencies_Readiness(t *testing.T) {
	tests := []struct {
		name  string
		mongo MongoPinger
		redis RedisPinger
		code  int
		body  string
	}{
		{
			name:  "all healthy",
			mongo: fakeMongo{},
			redis: fakeRedis{},
			code:  http.StatusOK,
			body:  `{"status":"ok","dependencies":{"mongodb":{"status":"ok"},"redis":{"status":"ok"}}}`,
		},
		{
			name:  "redis not configured",
			mongo: fakeMongo{},
			code:  http.StatusOK,
			body:  `{"status":"ok","dependencies":{"mongodb":{"status":"ok"}}}`,
		},
		{
			name:  "mongo down",
			mongo: fakeMongo{err: errors.New("no reachable servers")},
			redis: fakeRedis{},
			code:  http.StatusServiceUnavailable,
			body:  `{"status":"degraded","dependencies":{"mongodb":{"status":"unhealthy","error":"no reachable servers"},"redis":{"status":"ok"}}}`,
		},
		{
			name:  "redis down",
			mongo: fakeMongo{},
			redis: fakeRedis{err: errors.New("connection refused")},
			code:  http.StatusServiceUnavailable,
			body:  `{"status":"degraded","dependencies":{"mongodb":{"status":"ok"},"redis":{"status":"unhealthy","error":"connection refused"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthDependenciesHandler(tt.mongo, tt.redis)
			rec, err := do(t, h.Readiness, call{method: http.MethodGet, target: "/health/ready"})
			require.NoError(t, err)
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
