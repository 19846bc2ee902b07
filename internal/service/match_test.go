package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for id, date := range map[int64]int64{1: 2_000, 2: 3_000, 3: 1_000, 4: 3_000} {
		_, err := env.ingest.Ingest(ctx, rawMatch(id, date))
		require.NoError(t, err)
	}

	matches, err := env.matchSvc.List(ctx, 0)
	require.NoError(t, err)
	var ids []int64
	for _, m := range matches {
		ids = append(ids, m.MatchID)
	}
	assert.Equal(t, []int64{4, 2, 1, 3}, ids)

	matches, err = env.matchSvc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMatchService_DetailNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.matchSvc.Detail(context.Background(), 12345)
	assert.True(t, errors.Is(err, ErrMatchNotFound))
}

func TestPlayerService_GetPlayer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.ingest.Ingest(ctx, rawMatch(1, 1_000))
	require.NoError(t, err)

	svc := NewPlayerService(env.db, env.players, zerolog.Nop())
	p, err := svc.GetPlayer(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Player7", p.SummonerName)

	_, err = svc.GetPlayer(ctx, 700)
	assert.True(t, errors.Is(err, ErrUnknownAccount))
}
