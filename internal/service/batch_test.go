package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peggalex/rchkChampionships/internal/config"
	"github.com/peggalex/rchkChampionships/internal/constants"
)

func TestBatchService_IngestRemote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// distinct account ranges so the matches do not race on player rows
	for _, id := range []int64{11, 12, 13} {
		m := riotMatch(id)
		for i := range m.ParticipantIdentities {
			m.ParticipantIdentities[i].Player.CurrentAccountID = id*100 + int64(i)
		}
		env.remote.matches[id] = m
	}
	_, err := env.ingest.IngestRemote(ctx, "NA1", 11)
	require.NoError(t, err)

	batch := NewBatchService(env.ingest, &config.Config{IngestWorkers: 2}, zerolog.Nop())
	out, err := batch.IngestRemote(ctx, "NA1", []int64{11, 12, 13, 404})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Ingested)
	assert.Equal(t, 1, out.Duplicates)
	assert.Equal(t, 1, out.Failed)

	require.Len(t, out.Items, 4)
	assert.True(t, out.Items[0].Duplicate)
	require.NotNil(t, out.Items[1].Result)
	assert.Equal(t, int64(12), out.Items[1].Result.MatchID)
	assert.Equal(t, int64(404), out.Items[3].MatchID)
	assert.NotEmpty(t, out.Items[3].Error)

	assert.Equal(t, 3, countRows(t, env.db, "match"))
}

func TestBatchService_Limits(t *testing.T) {
	env := newTestEnv(t)
	batch := NewBatchService(env.ingest, &config.Config{IngestWorkers: 1}, zerolog.Nop())

	_, err := batch.IngestRemote(context.Background(), "NA1", nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	ids := make([]int64, constants.MaxBatchSize+1)
	_, err = batch.IngestRemote(context.Background(), "NA1", ids)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Zero(t, env.remote.calls.Load())
}
