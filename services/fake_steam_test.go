package services

import (
	"context"
	"sync"

	"github.com/marek-cottingham/steam-api-token-gen-backend/steam"
)

type fakeSteam struct {
	vanity       map[string]steam.SteamID
	games        map[steam.SteamID][]steam.Game
	achievements map[int64][]steam.PlayerAchievement
	schema       map[int64][]steam.SchemaAchievement

	resolveErr      error
	gamesErr        error
	achievementErrs map[int64]error
	schemaErrs      map[int64]error
	// blockUntilDone makes achievement calls for these apps wait for cancellation.
	blockUntilDone map[int64]bool

	mu              sync.Mutex
	resolveCalls    int
	achievementApps []int64
	schemaApps      []int64
}

func (f *fakeSteam) ResolveVanityURL(ctx context.Context, name string) (steam.SteamID, error) {
	f.mu.Lock()
	f.resolveCalls++
	f.mu.Unlock()

	if name == "" || name == "undefined" {
		return "", &steam.ValidationError{Message: "Name or user id is required"}
	}
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	id, ok := f.vanity[name]
	if !ok {
		return "", &steam.UpstreamLogicError{Operation: steam.OpResolveVanityURL, Message: "No match"}
	}
	return id, nil
}

func (f *fakeSteam) GetOwnedGames(ctx context.Context, steamID steam.SteamID) ([]steam.Game, error) {
	if f.gamesErr != nil {
		return nil, f.gamesErr
	}
	return f.games[steamID], nil
}

func (f *fakeSteam) GetPlayerAchievements(ctx context.Context, appID int64, steamID steam.SteamID) ([]steam.PlayerAchievement, error) {
	f.mu.Lock()
	f.achievementApps = append(f.achievementApps, appID)
	f.mu.Unlock()

	if f.blockUntilDone[appID] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.achievementErrs[appID]; err != nil {
		return nil, err
	}
	return f.achievements[appID], nil
}

func (f *fakeSteam) GetSchemaForGame(ctx context.Context, appID int64) ([]steam.SchemaAchievement, error) {
	f.mu.Lock()
	f.schemaApps = append(f.schemaApps, appID)
	f.mu.Unlock()

	if err := f.schemaErrs[appID]; err != nil {
		return nil, err
	}
	return f.schema[appID], nil
}
