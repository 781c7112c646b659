package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marek-cottingham/steam-api-token-gen-backend/config"
	"github.com/marek-cottingham/steam-api-token-gen-backend/models"
	"github.com/marek-cottingham/steam-api-token-gen-backend/services"
	"github.com/marek-cottingham/steam-api-token-gen-backend/steam"
)

const testKey = "FEEDFACEFEEDFACEFEEDFACEFEEDFACE"

type stubAggregator struct {
	mu       sync.Mutex
	userName string
	userID   string
	list     *models.AchievementList
	err      error
}

func (s *stubAggregator) Aggregate(ctx context.Context, userName, userID string) (*models.AchievementList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userName, s.userID = userName, userID
	return s.list, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		SteamAPIKey:  testKey,
		SteamBaseURL: config.DefaultSteamBaseURL,
		Port:         "8000",
		AppEnv:       "development",
		CORSOrigins:  "*",
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func doGet(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestGetAchievementList(t *testing.T) {
	icon := "https://cdn/400/beat.jpg"
	agg := &stubAggregator{list: &models.AchievementList{
		UserID: "76561197960287930",
		Achievements: []models.AchievementRecord{
			{Name: "Portal: Lab Rat | Beat the game", Game: "Portal", GameID: 400, ImageURL: &icon},
			{Name: "Portal 2: Wake Up Call", Game: "Portal 2", GameID: 620},
		},
	}}
	app := setupApp(testConfig(), agg, nil, quietLogger())

	resp, body := doGet(t, app, "/getAchievementList?userName=gabe&userId=")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.JSONEq(t, `{
		"userId": "76561197960287930",
		"achievements": [
			{"name": "Portal: Lab Rat | Beat the game", "game": "Portal", "game_id": 400, "image_url": "https://cdn/400/beat.jpg"},
			{"name": "Portal 2: Wake Up Call", "game": "Portal 2", "game_id": 620, "image_url": null}
		]
	}`, body)

	assert.Equal(t, "gabe", agg.userName)
	assert.Equal(t, "", agg.userID)
}

func TestGetAchievementListAPIRoute(t *testing.T) {
	agg := &stubAggregator{list: &models.AchievementList{UserID: "1", Achievements: []models.AchievementRecord{}}}
	app := setupApp(testConfig(), agg, nil, quietLogger())

	resp, body := doGet(t, app, "/api/achievements?userId=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"1","achievements":[]}`, body)
	assert.Equal(t, "1", agg.userID)
}

func TestGetAchievementListError(t *testing.T) {
	agg := &stubAggregator{err: &steam.ValidationError{Message: "Name or user id is required"}}
	app := setupApp(testConfig(), agg, nil, quietLogger())

	resp, body := doGet(t, app, "/getAchievementList")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"success":false,"error":"Name or user id is required"}`, body)
}

func TestProductionHidesInternalErrors(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"

	app := setupApp(cfg, &stubAggregator{err: errors.New("nil map somewhere")}, nil, quietLogger())
	_, body := doGet(t, app, "/getAchievementList?userId=1")
	assert.NotContains(t, body, "nil map")

	app = setupApp(cfg, &stubAggregator{err: &steam.InvalidUserError{SteamID: "1", StatusCode: 500}}, nil, quietLogger())
	_, body = doGet(t, app, "/getAchievementList?userId=1")
	assert.Contains(t, body, "User id may be invalid")
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(testConfig(), &stubAggregator{}, nil, quietLogger())

	resp, body := doGet(t, app, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"healthy"`)

	resp, body = doGet(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "achievements_http_requests_total")
}

// fakeSteamAPI serves the four Steam operations for the end-to-end tests.
func fakeSteamAPI(t *testing.T, schemaStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
	mux.HandleFunc("/ISteamUser/ResolveVanityURL/v0001/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vanityurl") != "gabe" {
			write(w, 200, `{"response":{"success":42,"message":"No match"}}`)
			return
		}
		write(w, 200, `{"response":{"steamid":"76561197960287930","success":1}}`)
	})
	mux.HandleFunc("/IPlayerService/GetOwnedGames/v0001/", func(w http.ResponseWriter, r *http.Request) {
		write(w, 200, `{"response":{"game_count":3,"games":[
			{"appid":400,"name":"Portal","has_community_visible_stats":true},
			{"appid":10,"name":"Counter-Strike"},
			{"appid":70,"name":"Half-Life","has_community_visible_stats":true}
		]}}`)
	})
	mux.HandleFunc("/ISteamUserStats/GetPlayerAchievements/v0001/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("appid") {
		case "400":
			write(w, 200, `{"playerstats":{"achievements":[
				{"apiname":"PORTAL_BEAT_GAME","achieved":1,"name":"Lab Rat","description":"Beat the game"},
				{"apiname":"PORTAL_CAKE","achieved":1,"name":"Cake","description":""},
				{"apiname":"PORTAL_LOCKED","achieved":0,"name":"Locked","description":""}
			]}}`)
		case "70":
			write(w, 400, `{"playerstats":{"error":"Requested app has no stats","success":false}}`)
		default:
			t.Errorf("unexpected achievements call for app %s", r.URL.Query().Get("appid"))
			write(w, 500, `{}`)
		}
	})
	mux.HandleFunc("/ISteamUserStats/GetSchemaForGame/v2/", func(w http.ResponseWriter, r *http.Request) {
		if schemaStatus != 200 {
			write(w, schemaStatus, `{}`)
			return
		}
		write(w, 200, `{"game":{"availableGameStats":{"achievements":[
			{"name":"PORTAL_BEAT_GAME","displayName":"Lab Rat","icon":"https://cdn/400/beat.jpg"}
		]}}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newEndToEndApp(t *testing.T, steamURL string) *fiber.App {
	t.Helper()
	cfg := testConfig()
	cfg.SteamBaseURL = steamURL
	client, err := steam.New(steam.Config{BaseURL: cfg.SteamBaseURL, APIKey: cfg.SteamAPIKey, Logger: quietLogger()})
	require.NoError(t, err)
	return setupApp(cfg, services.NewAggregator(client, quietLogger()), nil, quietLogger())
}

func TestEndToEnd(t *testing.T) {
	app := newEndToEndApp(t, fakeSteamAPI(t, 200).URL)

	resp, body := doGet(t, app, "/getAchievementList?userName=gabe")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var list models.AchievementList
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, steam.SteamID("76561197960287930"), list.UserID)
	require.Len(t, list.Achievements, 2)
	assert.Equal(t, "Portal: Lab Rat | Beat the game", list.Achievements[0].Name)
	require.NotNil(t, list.Achievements[0].ImageURL)
	assert.Equal(t, "https://cdn/400/beat.jpg", *list.Achievements[0].ImageURL)
	assert.Equal(t, "Portal: Cake", list.Achievements[1].Name)
	assert.Nil(t, list.Achievements[1].ImageURL)
}

func TestEndToEndUnknownName(t *testing.T) {
	app := newEndToEndApp(t, fakeSteamAPI(t, 200).URL)

	resp, body := doGet(t, app, "/getAchievementList?userName=nobody")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Steam user lookup failed: No match")
}

func TestEndToEndTransportErrorNeverLeaksKey(t *testing.T) {
	app := newEndToEndApp(t, fakeSteamAPI(t, http.StatusForbidden).URL)

	resp, body := doGet(t, app, "/getAchievementList?userId=76561197960287930")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, strings.Contains(body, testKey), "response leaked the api key: %s", body)
	assert.Contains(t, body, "Request failed with status code 403")
}
