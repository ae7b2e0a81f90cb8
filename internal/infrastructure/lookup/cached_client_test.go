package lookup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steeldex/internal/config"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
)

type stubClient struct {
	rec   *grade.GradeRecord
	err   error
	calls int
}

func (s *stubClient) Lookup(context.Context, string) (*grade.GradeRecord, error) {
	s.calls++
	return s.rec, s.err
}

func cacheConfig() config.RedisConfig {
	return config.RedisConfig{KeyPrefix: "steeldex:", DefaultTTL: time.Hour}
}

func TestNewCachedClient_NilRedisReturnsInner(t *testing.T) {
	inner := &stubClient{}
	c := NewCachedClient(inner, nil, cacheConfig(), logging.NewNop(), nil)
	assert.Equal(t, Client(inner), c)
}

func TestCachedClient_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cached, _ := json.Marshal(grade.GradeRecord{Name: "Х12МФ"})

	// Key folds spelling variants to the comparison key.
	mock.ExpectGet("steeldex:lookup:" + grade.ComparisonKey("Kh12MF")).SetVal(string(cached))

	inner := &stubClient{}
	c := NewCachedClient(inner, db, cacheConfig(), logging.NewNop(), nil)

	rec, err := c.Lookup(context.Background(), "Kh12MF")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Х12МФ", rec.Name)
	assert.Zero(t, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedClient_MissThenStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	key := "steeldex:lookup:" + grade.ComparisonKey("D2")
	rec := &grade.GradeRecord{Name: "D2", Composition: map[string]string{"c": "1.55"}}
	payload, _ := json.Marshal(rec)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, string(payload), time.Hour).SetVal("OK")

	inner := &stubClient{rec: rec}
	c := NewCachedClient(inner, db, cacheConfig(), logging.NewNop(), nil)

	got, err := c.Lookup(context.Background(), "D2")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedClient_NegativeAnswerCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	key := "steeldex:lookup:" + grade.ComparisonKey("UNKNOWNIUM")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, missSentinel, time.Hour).SetVal("OK")

	inner := &stubClient{}
	c := NewCachedClient(inner, db, cacheConfig(), logging.NewNop(), nil)

	rec, err := c.Lookup(context.Background(), "UNKNOWNIUM")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedClient_CachedMissShortCircuits(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("steeldex:lookup:" + grade.ComparisonKey("UNKNOWNIUM")).SetVal(missSentinel)

	inner := &stubClient{}
	c := NewCachedClient(inner, db, cacheConfig(), logging.NewNop(), nil)

	rec, err := c.Lookup(context.Background(), "UNKNOWNIUM")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
