package services

import (
	"github.com/marek-cottingham/steam-api-token-gen-backend/models"
	"github.com/marek-cottingham/steam-api-token-gen-backend/steam"
)

// MergeGameAchievements joins a game's unlocked achievements with its schema
// by api name. Records keep the order of unlocked; achievements that are not
// unlocked are dropped.
func MergeGameAchievements(game steam.Game, unlocked []steam.PlayerAchievement, schema []steam.SchemaAchievement) []models.AchievementRecord {
	icons := make(map[string]string, len(schema))
	for _, s := range schema {
		if _, seen := icons[s.Name]; !seen {
			icons[s.Name] = s.Icon
		}
	}

	records := make([]models.AchievementRecord, 0, len(unlocked))
	for _, ach := range unlocked {
		if !ach.Unlocked() {
			continue
		}
		record := models.AchievementRecord{
			Name:   AchievementLabel(game.Name, ach),
			Game:   game.Name,
			GameID: game.AppID,
		}
		if icon, ok := icons[ach.APIName]; ok {
			record.ImageURL = &icon
		}
		records = append(records, record)
	}
	return records
}

// AchievementLabel composes "<game>: <name>", adding " | <description>"
// when the achievement has one.
func AchievementLabel(gameName string, ach steam.PlayerAchievement) string {
	label := gameName + ": " + ach.Name
	if ach.Description != "" {
		label += " | " + ach.Description
	}
	return label
}
