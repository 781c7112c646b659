// models/achievement.go
package models

import "github.com/marek-cottingham/steam-api-token-gen-backend/steam"

// AchievementRecord is one unlocked achievement in the aggregated list.
type AchievementRecord struct {
	Name     string  `json:"name"` // "<game>: <achievement>[ | <description>]"
	Game     string  `json:"game"`
	GameID   int64   `json:"game_id"`
	ImageURL *string `json:"image_url"` // null when the schema has no matching entry
}

// AchievementList is the response body of the achievement list endpoint.
type AchievementList struct {
	UserID       steam.SteamID       `json:"userId"`
	Achievements []AchievementRecord `json:"achievements"`
}
