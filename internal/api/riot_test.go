package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peggalex/rchkChampionships/internal/config"
)

func newTestRiotClient(script ...scripted) (*RiotClient, *scriptedTransport) {
	transport := &scriptedTransport{script: script}
	sleeper := &recordingSleeper{}
	fetch := newTestClient(transport, sleeper)
	cfg := &config.Config{
		RiotPlatformURL: "https://%s.api.riotgames.com",
		DataDragonURL:   "https://ddragon.leagueoflegends.com",
		RetryDelay:      time.Second,
	}
	return NewRiotClient(fetch, cfg), transport
}

func TestRiotClient_Endpoints(t *testing.T) {
	client, transport := newTestRiotClient(
		scripted{status: 200, body: `{"accountId":1,"name":"x","profileIconId":3}`},
		scripted{status: 200, body: `{"gameId":9001,"gameCreation":1600000000000,"gameDuration":1800}`},
	)
	ctx := context.Background()

	icon, err := client.SummonerIcon(ctx, "EUW1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, icon)

	match, err := client.Match(ctx, "EUW1", 9001)
	require.NoError(t, err)
	assert.Equal(t, int64(9001), match.GameID)

	require.Len(t, transport.uris, 2)
	assert.Contains(t, transport.uris[0], "/lol/summoner/v4/summoners/by-account/1")
	assert.Contains(t, transport.uris[1], "/lol/match/v4/matches/9001")
}

func TestRiotClient_StaticData(t *testing.T) {
	client, transport := newTestRiotClient(
		scripted{status: 200, body: `["13.24.1","13.23.1"]`},
		scripted{status: 200, body: `{"data":{"Aatrox":{"key":"266","name":"Aatrox"},"KSante":{"key":"897","name":"K'Sante"}}}`},
		scripted{status: 200, body: `{"data":{"SummonerFlash":{"key":"4","name":"Flash"}}}`},
		scripted{status: 200, body: `[{"id":8000,"key":"Precision","icon":"perk-images/Styles/7201_Precision.png","name":"Precision",` +
			`"slots":[{"runes":[{"id":8005,"key":"PressTheAttack","icon":"perk-images/Styles/Precision/PressTheAttack/PressTheAttack.png","name":"Press the Attack"}]},` +
			`{"runes":[{"id":9101,"key":"Overheal","icon":"perk-images/Styles/Precision/Overheal.png","name":"Overheal"}]}]}]`},
	)
	ctx := context.Background()

	version, err := client.LatestVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "13.24.1", version)

	champions, err := client.Champions(ctx, version)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{266: "Aatrox", 897: "K'Sante"}, champions)

	spells, err := client.SummonerSpells(ctx, version)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{4: "Flash"}, spells)

	keystones, err := client.Keystones(ctx, version)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{8005: "perk-images/Styles/Precision/PressTheAttack/PressTheAttack.png"}, keystones)

	assert.Contains(t, transport.uris[1], "/cdn/13.24.1/data/en_US/champion.json")
}
