package steam

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// GetPlayerAchievements returns the achievements the user has unlocked in
// the game, in Steam's order. Games without stats make Steam answer 400,
// which is reported as no achievements.
func (c *Client) GetPlayerAchievements(ctx context.Context, appID int64, steamID SteamID) ([]PlayerAchievement, error) {
	params := url.Values{}
	params.Set("appid", strconv.FormatInt(appID, 10))
	params.Set("steamid", string(steamID))
	params.Set("l", c.language)

	body, err := c.get(ctx, OpGetPlayerAchievements, pathGetPlayerAchievements, params)
	if err != nil {
		if statusOf(err) == http.StatusBadRequest {
			c.log.WithField("appid", appID).Debug("no stats for game")
			return []PlayerAchievement{}, nil
		}
		return nil, err
	}

	all := decodeArray[PlayerAchievement](body, "playerstats.achievements")
	unlocked := make([]PlayerAchievement, 0, len(all))
	for _, a := range all {
		if a.Unlocked() {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

// GetSchemaForGame returns the achievement catalog of a game.
func (c *Client) GetSchemaForGame(ctx context.Context, appID int64) ([]SchemaAchievement, error) {
	params := url.Values{}
	params.Set("appid", strconv.FormatInt(appID, 10))
	params.Set("l", c.language)

	body, err := c.get(ctx, OpGetSchemaForGame, pathGetSchemaForGame, params)
	if err != nil {
		return nil, err
	}

	schema := decodeArray[SchemaAchievement](body, "game.availableGameStats.achievements")
	if schema == nil {
		return []SchemaAchievement{}, nil
	}
	return schema, nil
}
