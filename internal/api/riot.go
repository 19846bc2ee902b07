package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/peggalex/rchkChampionships/internal/config"
)

// RiotClient reads match and summoner data from the Riot platform API and
// static reference data from Data Dragon.
type RiotClient struct {
	fetch         *Client
	platformURL   string // format string taking the lower-case platform id
	dataDragonURL string
}

func NewRiotClient(fetch *Client, cfg *config.Config) *RiotClient {
	return &RiotClient{
		fetch:         fetch,
		platformURL:   cfg.RiotPlatformURL,
		dataDragonURL: cfg.DataDragonURL,
	}
}

func (c *RiotClient) platform(region string) string {
	return fmt.Sprintf(c.platformURL, strings.ToLower(region))
}

func (c *RiotClient) Summoner(ctx context.Context, region string, accountID int64) (*SummonerResponse, error) {
	url := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-account/%d", c.platform(region), accountID)
	var out SummonerResponse
	if err := c.fetch.GetJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RiotClient) SummonerIcon(ctx context.Context, region string, accountID int64) (int, error) {
	summoner, err := c.Summoner(ctx, region, accountID)
	if err != nil {
		return 0, err
	}
	return summoner.ProfileIconID, nil
}

func (c *RiotClient) Match(ctx context.Context, region string, matchID int64) (*MatchResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v4/matches/%d", c.platform(region), matchID)
	var out MatchResponse
	if err := c.fetch.GetJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RiotClient) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.fetch.GetJSON(ctx, c.dataDragonURL+"/api/versions.json", &versions); err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("data dragon returned no versions")
	}
	return versions[0], nil
}

func (c *RiotClient) Champions(ctx context.Context, version string) (map[int]string, error) {
	var list championList
	if err := c.fetch.GetJSON(ctx, c.cdn(version, "champion.json"), &list); err != nil {
		return nil, err
	}

	out := make(map[int]string, len(list.Data))
	for _, champ := range list.Data {
		id, err := strconv.Atoi(champ.Key)
		if err != nil {
			return nil, fmt.Errorf("champion %q has key %q: %w", champ.Name, champ.Key, err)
		}
		out[id] = champ.Name
	}
	return out, nil
}

func (c *RiotClient) SummonerSpells(ctx context.Context, version string) (map[int]string, error) {
	var list summonerSpellList
	if err := c.fetch.GetJSON(ctx, c.cdn(version, "summoner.json"), &list); err != nil {
		return nil, err
	}

	out := make(map[int]string, len(list.Data))
	for _, spell := range list.Data {
		id, err := strconv.Atoi(spell.Key)
		if err != nil {
			return nil, fmt.Errorf("summoner spell %q has key %q: %w", spell.Name, spell.Key, err)
		}
		out[id] = spell.Name
	}
	return out, nil
}

// Keystones maps each keystone rune (the first slot of every tree) to its
// icon path relative to /cdn/img/.
func (c *RiotClient) Keystones(ctx context.Context, version string) (map[int]string, error) {
	var trees []runeTree
	if err := c.fetch.GetJSON(ctx, c.cdn(version, "runesReforged.json"), &trees); err != nil {
		return nil, err
	}

	out := make(map[int]string)
	for _, tree := range trees {
		if len(tree.Slots) == 0 {
			continue
		}
		for _, r := range tree.Slots[0].Runes {
			out[r.ID] = r.Icon
		}
	}
	return out, nil
}

func (c *RiotClient) cdn(version, document string) string {
	return fmt.Sprintf("%s/cdn/%s/data/en_US/%s", c.dataDragonURL, version, document)
}

func (c *RiotClient) RateLimit() RateLimitInfo {
	return c.fetch.GetRateLimitInfo()
}
