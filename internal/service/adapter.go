package service

import (
	"fmt"

	"github.com/peggalex/rchkChampionships/internal/api"
	"github.com/peggalex/rchkChampionships/internal/domain"
)

const (
	riotBlueTeam = 100
	riotRedTeam  = 200
)

func sideFromTeamID(teamID int) (domain.Side, error) {
	switch teamID {
	case riotBlueTeam:
		return domain.SideBlue, nil
	case riotRedTeam:
		return domain.SideRed, nil
	}
	return "", fmt.Errorf("unknown team id %d", teamID)
}

// RawFromRiot adapts a match-v4 document into a raw match record.
func RawFromRiot(region string, m *api.MatchResponse) (*domain.RawMatch, error) {
	if m == nil {
		return nil, fmt.Errorf("empty match document")
	}

	raw := &domain.RawMatch{
		MatchID:    m.GameID,
		Region:     region,
		Duration:   m.GameDuration,
		OccurredAt: m.GameCreation / 1000,
	}

	for _, t := range m.Teams {
		side, err := sideFromTeamID(t.TeamID)
		if err != nil {
			return nil, err
		}
		team := domain.RawTeam{
			Side:    side,
			Win:     t.Win == "Win",
			Dragons: t.DragonKills,
			Barons:  t.BaronKills,
			Towers:  t.TowerKills,
			Inhibs:  t.InhibitorKills,
		}
		for _, ban := range t.Bans {
			if ban.ChampionID <= 0 {
				continue
			}
			team.Bans = append(team.Bans, domain.RawBan{ChampionID: ban.ChampionID, PickTurn: ban.PickTurn})
		}
		raw.Teams = append(raw.Teams, team)
	}

	identities := make(map[int]api.IdentityPlayer, len(m.ParticipantIdentities))
	for _, id := range m.ParticipantIdentities {
		identities[id.ParticipantID] = id.Player
	}

	for _, p := range m.Participants {
		identity, ok := identities[p.ParticipantID]
		if !ok {
			return nil, fmt.Errorf("participant %d has no identity", p.ParticipantID)
		}
		side, err := sideFromTeamID(p.TeamID)
		if err != nil {
			return nil, err
		}

		accountID := identity.CurrentAccountID
		if accountID == 0 {
			accountID = identity.AccountID
		}

		st := p.Stats
		raw.Participants = append(raw.Participants, domain.RawParticipant{
			AccountID:    accountID,
			SummonerName: identity.SummonerName,
			IconID:       identity.ProfileIcon,
			Side:         side,
			ChampionID:   p.ChampionID,
			Kills:        st.Kills,
			Deaths:       st.Deaths,
			Assists:      st.Assists,
			CS:           st.TotalMinionsKilled + st.NeutralMinionsKilled,
			Doubles:      st.DoubleKills,
			Triples:      st.TripleKills,
			Quadras:      st.QuadraKills,
			Pentas:       st.PentaKills,
			DmgDealt:     st.TotalDamageDealtToChampions,
			DmgTaken:     st.TotalDamageTaken,
			Gold:         st.GoldEarned,
			Spell1ID:     p.Spell1ID,
			Spell2ID:     p.Spell2ID,
			Items:        []int{st.Item0, st.Item1, st.Item2, st.Item3, st.Item4, st.Item5, st.Item6},
			KeystoneID:   st.Perk0,
			Healing:      st.TotalHeal,
			Vision:       st.VisionScore,
			CCTime:       st.TimeCCingOthers,
			FirstBlood:   st.FirstBloodKill,
			Turrets:      st.TurretKills,
			Inhibs:       st.InhibitorKills,
		})
	}

	return raw, nil
}
