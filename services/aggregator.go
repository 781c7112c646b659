package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/marek-cottingham/steam-api-token-gen-backend/metrics"
	"github.com/marek-cottingham/steam-api-token-gen-backend/models"
	"github.com/marek-cottingham/steam-api-token-gen-backend/steam"
)

// SteamAPI is the subset of the Steam client the aggregator calls.
type SteamAPI interface {
	ResolveVanityURL(ctx context.Context, name string) (steam.SteamID, error)
	GetOwnedGames(ctx context.Context, steamID steam.SteamID) ([]steam.Game, error)
	GetPlayerAchievements(ctx context.Context, appID int64, steamID steam.SteamID) ([]steam.PlayerAchievement, error)
	GetSchemaForGame(ctx context.Context, appID int64) ([]steam.SchemaAchievement, error)
}

// Aggregator builds a user's flattened list of unlocked achievements.
type Aggregator struct {
	steam SteamAPI
	log   *logrus.Logger
}

func NewAggregator(api SteamAPI, logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{steam: api, log: logger}
}

// Aggregate resolves the user, lists their games and fetches achievements
// and schema for every game with visible stats concurrently. The first
// failure cancels the outstanding calls and fails the whole aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, userName, userID string) (*models.AchievementList, error) {
	log := a.log.WithFields(logrus.Fields{"user_name": userName, "user_id": userID})
	if rid, ok := ctx.Value(RequestIDKey).(string); ok {
		log = log.WithField("request_id", rid)
	}

	steamID, err := a.resolveUserID(ctx, userName, userID)
	if err != nil {
		metrics.ObserveAggregation("resolve_failed", 0)
		return nil, err
	}
	log = log.WithField("steam_id", steamID)

	games, err := a.steam.GetOwnedGames(ctx, steamID)
	if err != nil {
		metrics.ObserveAggregation("games_failed", 0)
		return nil, err
	}

	eligible := make([]steam.Game, 0, len(games))
	for _, g := range games {
		if g.HasCommunityVisibleStats {
			eligible = append(eligible, g)
		}
	}
	log.WithFields(logrus.Fields{"games": len(games), "with_stats": len(eligible)}).Info("fetching achievements")

	perGame := make([][]models.AchievementRecord, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	for i, game := range eligible {
		g.Go(func() error {
			records, err := a.gameAchievements(gctx, game, steamID)
			if err != nil {
				log.WithError(err).WithField("appid", game.AppID).Warn("game achievements failed")
				return err
			}
			perGame[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.ObserveAggregation("game_failed", len(eligible))
		return nil, err
	}

	achievements := []models.AchievementRecord{}
	for _, records := range perGame {
		achievements = append(achievements, records...)
	}
	metrics.ObserveAggregation("ok", len(eligible))
	log.WithField("achievements", len(achievements)).Info("aggregation complete")

	return &models.AchievementList{UserID: steamID, Achievements: achievements}, nil
}

// resolveUserID prefers an explicit steam id and only resolves the vanity
// name when none was given.
func (a *Aggregator) resolveUserID(ctx context.Context, userName, userID string) (steam.SteamID, error) {
	if userID != "" {
		return steam.SteamID(userID), nil
	}
	return a.steam.ResolveVanityURL(ctx, userName)
}

// gameAchievements fetches a game's unlocked achievements and its schema in
// parallel and merges them.
func (a *Aggregator) gameAchievements(ctx context.Context, game steam.Game, steamID steam.SteamID) ([]models.AchievementRecord, error) {
	var (
		unlocked []steam.PlayerAchievement
		schema   []steam.SchemaAchievement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		unlocked, err = a.steam.GetPlayerAchievements(gctx, game.AppID, steamID)
		return err
	})
	g.Go(func() error {
		var err error
		schema, err = a.steam.GetSchemaForGame(gctx, game.AppID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MergeGameAchievements(game, unlocked, schema), nil
}
