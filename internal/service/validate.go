package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/peggalex/rchkChampionships/internal/domain"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		return domain.IsRegion(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// checkShape enforces the structural rules struct tags cannot express. raw
// has already passed tag validation.
func checkShape(raw *domain.RawMatch) error {
	teams := make(map[domain.Side]bool, 2)
	winners := 0
	for _, t := range raw.Teams {
		if teams[t.Side] {
			return invalidf("two teams on the %s side", t.Side)
		}
		teams[t.Side] = true
		if t.Win {
			winners++
		}
	}
	if winners != 1 {
		return invalidf("expected exactly one winning team, got %d", winners)
	}

	perSide := make(map[domain.Side]int, 2)
	sideKills := make(map[domain.Side]int, 2)
	accounts := make(map[int64]bool, len(raw.Participants))
	for _, p := range raw.Participants {
		perSide[p.Side]++
		if perSide[p.Side] > 5 {
			return invalidf("more than 5 participants on the %s side", p.Side)
		}
		if accounts[p.AccountID] {
			return invalidf("account %d appears twice", p.AccountID)
		}
		accounts[p.AccountID] = true
		if strings.TrimSpace(p.SummonerName) == "" {
			return invalidf("account %d has a blank summoner name", p.AccountID)
		}
		sideKills[p.Side] += p.Kills
	}

	for _, p := range raw.Participants {
		if p.Kills+p.Assists > sideKills[p.Side] {
			return invalidf("account %d took part in %d kills but the %s side only has %d",
				p.AccountID, p.Kills+p.Assists, p.Side, sideKills[p.Side])
		}
	}
	return nil
}
