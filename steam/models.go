package steam

// SteamID is the canonical 64-bit account id, kept as the decimal string
// Steam returns.
type SteamID string

type vanityResponse struct {
	Response struct {
		Success int     `json:"success"`
		SteamID SteamID `json:"steamid"`
		Message string  `json:"message"`
	} `json:"response"`
}

// Game is one entry of a user's owned games list.
type Game struct {
	AppID                    int64  `json:"appid"`
	Name                     string `json:"name"`
	HasCommunityVisibleStats bool   `json:"has_community_visible_stats"`
	PlaytimeForever          int64  `json:"playtime_forever,omitempty"`
	ImgIconURL               string `json:"img_icon_url,omitempty"`
}

// PlayerAchievement is one achievement of a game as seen by a single player.
type PlayerAchievement struct {
	APIName     string `json:"apiname"`
	Achieved    int    `json:"achieved"`
	UnlockTime  int64  `json:"unlocktime"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a PlayerAchievement) Unlocked() bool {
	return a.Achieved == 1
}

// SchemaAchievement is one entry of a game's achievement catalog.
type SchemaAchievement struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	IconGray     string `json:"icongray"`
	Hidden       int    `json:"hidden"`
	DefaultValue int    `json:"defaultvalue"`
}
