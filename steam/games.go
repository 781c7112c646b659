package steam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// GetOwnedGames lists the games a user owns, including free games they
// played. A profile with no visible games yields an empty slice.
func (c *Client) GetOwnedGames(ctx context.Context, steamID SteamID) ([]Game, error) {
	params := url.Values{}
	params.Set("steamid", string(steamID))
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")

	body, err := c.get(ctx, OpGetOwnedGames, pathGetOwnedGames, params)
	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			return nil, &InvalidUserError{SteamID: steamID, StatusCode: http.StatusInternalServerError}
		}
		return nil, err
	}

	games := decodeArray[Game](body, "response.games")
	if len(games) == 0 {
		return []Game{}, nil
	}
	return games, nil
}

// decodeArray decodes the array found at path. A missing or non-array value
// yields nil and items that do not decode are skipped.
func decodeArray[T any](body []byte, path string) []T {
	if !gjson.ValidBytes(body) {
		return nil
	}
	res := gjson.GetBytes(body, path)
	if !res.IsArray() {
		return nil
	}
	items := res.Array()
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := decodeItem(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

var errNotObject = errors.New("not an object")

func decodeItem(item gjson.Result, v any) error {
	if !item.IsObject() {
		return errNotObject
	}
	return json.Unmarshal([]byte(item.Raw), v)
}
