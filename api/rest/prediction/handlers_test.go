package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
	"codeberg.org/cosmicquirks/server/cosmicquirks/predictions"
	"codeberg.org/cosmicquirks/server/cosmicquirks/usage"
	"codeberg.org/cosmicquirks/server/internal/access"
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/oracle"
)

const rasterImage = "data:image/png;base64,QUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFB"

// implements CharacterMatcher for testing
type mockMatcher struct {
	matchFunc      func(ctx context.Context, input oracle.Input) (*oracle.Result, error)
	illustrateFunc func(ctx context.Context, result *oracle.Result) string
	matchCalls     int
}

func (m *mockMatcher) Match(ctx context.Context, input oracle.Input) (*oracle.Result, error) {
	m.matchCalls++
	if m.matchFunc != nil {
		return m.matchFunc(ctx, input)
	}
	return &oracle.Result{
		CharacterName:        "Duchess Marmalade",
		CharacterDescription: "A jam-obsessed aristocrat from a forgotten duchy",
		Prediction:           "The stars giggle in your favor.",
		Model:                "mock-model",
	}, nil
}

func (m *mockMatcher) Illustrate(ctx context.Context, result *oracle.Result) string {
	if m.illustrateFunc != nil {
		return m.illustrateFunc(ctx, result)
	}
	return rasterImage
}

// implements UsageTracker for testing
type mockTracker struct {
	status     *usage.Status
	checkErr   error
	increments []string
}

func (m *mockTracker) CheckLimit(_ context.Context, _ string, _ bool) (*usage.Status, error) {
	return m.status, m.checkErr
}

func (m *mockTracker) Increment(_ context.Context, identifier string, _ bool) bool {
	m.increments = append(m.increments, identifier)
	return true
}

// implements AssetSource for testing
type mockPool struct {
	acquireFunc func(ctx context.Context, criteria assets.Criteria) (*assets.Asset, error)
	acquired    []assets.Criteria
	added       []string
}

func (m *mockPool) Acquire(ctx context.Context, criteria assets.Criteria) (*assets.Asset, error) {
	m.acquired = append(m.acquired, criteria)
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, criteria)
	}
	return nil, nil
}

func (m *mockPool) Add(_ context.Context, imageData, _, _, _, _ string) (*assets.Asset, error) {
	m.added = append(m.added, imageData)
	return &assets.Asset{ID: "asset-1", ImageData: imageData}, nil
}

// implements PredictionStore for testing
type mockStore struct {
	insertErr error
	duplicate *predictions.DuplicateMatch
	dupErr    error
	inserted  []predictions.Record
}

func (m *mockStore) Insert(_ context.Context, record predictions.Record) (*predictions.Prediction, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.inserted = append(m.inserted, record)
	return &predictions.Prediction{ID: fmt.Sprintf("pred-%d", len(m.inserted)), UserID: record.UserID}, nil
}

func (m *mockStore) FindDuplicate(_ context.Context, _, _, _, _ string) (*predictions.DuplicateMatch, error) {
	return m.duplicate, m.dupErr
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Forms: config.FormAccess{
			Unregistered: []string{"fortune"},
			Registered:   []string{"fortune", "matchmaking", "birthday", "career", "travel"},
			Premium:      []string{"fortune", "matchmaking", "birthday", "career", "travel"},
		},
		Imaging: config.ImagingConfig{
			MaxSizeKB:   map[string]int{"unregistered": 450, "registered": 450, "premium": 450},
			BaseQuality: map[string]int{"unregistered": 85, "registered": 85, "premium": 85},
			MinQuality:  60,
		},
	}
}

func testDeps(matcher *mockMatcher, tracker *mockTracker, pool *mockPool, store *mockStore) Dependencies {
	cfg := testConfig()
	return Dependencies{
		Config:  cfg,
		Matcher: matcher,
		Tracker: tracker,
		Pool:    pool,
		Store:   store,
		Access:  access.NewPolicy(cfg.Forms),
	}
}

func okStatus(used, limit int) *usage.Status {
	return &usage.Status{CanGenerate: true, Used: used, Limit: limit}
}

// mounts the handler behind a stub identity instead of real JWT middleware
func generateRequest(t *testing.T, deps Dependencies, userID, planType string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/prediction", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("plan_type", planType)
		}
	}, GenerateHandler(deps))

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/prediction", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	return w
}

func validBody() map[string]any {
	return map[string]any{
		"name":     "Ada",
		"month":    "7",
		"year":     "1990",
		"question": "Will I ever find true love under these stars?",
	}
}

func TestGenerateGuestUsesPoolImage(t *testing.T) {
	matcher := &mockMatcher{
		illustrateFunc: func(_ context.Context, _ *oracle.Result) string {
			t.Fatal("pool hit must not trigger fresh image generation")
			return ""
		},
	}
	pool := &mockPool{
		acquireFunc: func(_ context.Context, _ assets.Criteria) (*assets.Asset, error) {
			return &assets.Asset{ID: "asset-7", ImageData: rasterImage}, nil
		},
	}
	tracker := &mockTracker{status: okStatus(2, 10)}
	store := &mockStore{}

	w := generateRequest(t, testDeps(matcher, tracker, pool, store), "", "", validBody())

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)

	assert.Equal(t, "Duchess Marmalade", resp.Data.CharacterName)
	assert.Equal(t, "Hi Ada! The stars giggle in your favor.", resp.Data.Prediction)
	assert.Equal(t, "pool", resp.Data.Metadata.GenerationSource)
	assert.Equal(t, "unregistered", resp.Data.Metadata.UserType)
	assert.Equal(t, "unregistered", resp.Data.Metadata.UserTier)
	assert.Equal(t, 7, resp.Data.Metadata.UsageRemaining)
	assert.False(t, resp.Data.Metadata.SavedToDatabase)
	assert.Len(t, tracker.increments, 1)
	assert.Empty(t, store.inserted, "guest readings are not persisted")

	require.Len(t, pool.acquired, 1)
	assert.True(t, pool.acquired[0].ExcludeRecentlyUsed)
	assert.Equal(t, "love", pool.acquired[0].Theme)
	assert.Equal(t, "fortune", pool.acquired[0].FormType)
}

func TestGenerateGuestPoolMissSeedsPool(t *testing.T) {
	matcher := &mockMatcher{}
	pool := &mockPool{}
	tracker := &mockTracker{status: okStatus(0, 10)}

	w := generateRequest(t, testDeps(matcher, tracker, pool, &mockStore{}), "", "", validBody())

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ai", resp.Data.Metadata.GenerationSource)
	require.Len(t, pool.added, 1)
	assert.Equal(t, rasterImage, pool.added[0])
}

func TestGenerateRegisteredPersistsAndSkipsPool(t *testing.T) {
	matcher := &mockMatcher{}
	pool := &mockPool{}
	tracker := &mockTracker{status: okStatus(3, 50)}
	store := &mockStore{}

	body := validBody()
	body["formType"] = "career"

	w := generateRequest(t, testDeps(matcher, tracker, pool, store), "user-1", "premium", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "registered", resp.Data.Metadata.UserType)
	assert.Equal(t, "premium", resp.Data.Metadata.UserTier)
	assert.True(t, resp.Data.Metadata.SavedToDatabase)
	assert.Empty(t, pool.acquired, "registered users never draw from the pool")
	assert.Empty(t, pool.added, "registered images stay out of the pool")

	require.Len(t, store.inserted, 1)
	record := store.inserted[0]
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, "career", record.FormType)
	assert.Equal(t, "01-7-1990", record.InputBirthdate)
	assert.Equal(t, "ai", record.GenerationSource)
}

func TestGenerateQuotaExceeded(t *testing.T) {
	matcher := &mockMatcher{}
	tracker := &mockTracker{status: &usage.Status{
		CanGenerate: false,
		Used:        10,
		Limit:       10,
		Message:     "Your cosmic energy is recharging! Come back tomorrow for more predictions.",
	}}

	w := generateRequest(t, testDeps(matcher, tracker, &mockPool{}, &mockStore{}), "", "", validBody())

	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "USAGE_LIMIT_EXCEEDED", resp["code"])
	assert.Equal(t, float64(10), resp["used"])
	assert.Equal(t, float64(10), resp["limit"])
	assert.Zero(t, matcher.matchCalls, "exhausted quota must not reach the model")
	assert.Empty(t, tracker.increments)
}

func TestGenerateProceedsWhenUsageCheckFails(t *testing.T) {
	matcher := &mockMatcher{}
	tracker := &mockTracker{checkErr: fmt.Errorf("connection refused")}

	w := generateRequest(t, testDeps(matcher, tracker, &mockPool{}, &mockStore{}), "", "", validBody())

	require.Equal(t, http.StatusOK, w.Code, "a broken usage store must not block generation")

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)

	assert.Equal(t, "Duchess Marmalade", resp.Data.CharacterName)
	assert.Equal(t, "unregistered", resp.Data.Metadata.UserType)
	assert.Equal(t, 0, resp.Data.Metadata.UsageRemaining)
	assert.Equal(t, 1, matcher.matchCalls)
	assert.Len(t, tracker.increments, 1)
}

func TestGenerateFormAccessDenied(t *testing.T) {
	matcher := &mockMatcher{}

	body := validBody()
	body["formType"] = "matchmaking"

	w := generateRequest(t, testDeps(matcher, &mockTracker{status: okStatus(0, 10)}, &mockPool{}, &mockStore{}), "", "", body)

	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FORM_ACCESS_DENIED", resp["code"])
	assert.Zero(t, matcher.matchCalls)
}

func TestGenerateValidation(t *testing.T) {
	cases := map[string]map[string]any{
		"missing name":   {"month": "7", "year": "1990", "question": strings.Repeat("q", 20)},
		"name too long":  {"name": strings.Repeat("a", 51), "month": "7", "year": "1990", "question": strings.Repeat("q", 20)},
		"short question": {"name": "Ada", "month": "7", "year": "1990", "question": "why?"},
		"bad year":       {"name": "Ada", "month": "7", "year": "90", "question": strings.Repeat("q", 20)},
		"long month":     {"name": "Ada", "month": "007", "year": "1990", "question": strings.Repeat("q", 20)},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			matcher := &mockMatcher{}
			tracker := &mockTracker{status: okStatus(0, 10)}

			w := generateRequest(t, testDeps(matcher, tracker, &mockPool{}, &mockStore{}), "", "", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, matcher.matchCalls)
			assert.Empty(t, tracker.increments, "rejected requests consume no quota")
		})
	}
}

func TestGenerateIncompleteResult(t *testing.T) {
	matcher := &mockMatcher{
		matchFunc: func(_ context.Context, _ oracle.Input) (*oracle.Result, error) {
			return nil, oracle.ErrIncompleteResult
		},
	}
	tracker := &mockTracker{status: okStatus(0, 10)}

	w := generateRequest(t, testDeps(matcher, tracker, &mockPool{}, &mockStore{}), "", "", validBody())

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INCOMPLETE_RESULT", resp["code"])
	assert.Empty(t, tracker.increments)
}

func TestGenerateTextFailure(t *testing.T) {
	matcher := &mockMatcher{
		matchFunc: func(_ context.Context, _ oracle.Input) (*oracle.Result, error) {
			return nil, fmt.Errorf("openai api returned status 500")
		},
	}
	tracker := &mockTracker{status: okStatus(0, 10)}

	w := generateRequest(t, testDeps(matcher, tracker, &mockPool{}, &mockStore{}), "", "", validBody())

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI_GENERATION_FAILED", resp["code"])
	assert.Empty(t, tracker.increments)
}

func TestGenerateFallsBackToPlaceholder(t *testing.T) {
	matcher := &mockMatcher{
		illustrateFunc: func(_ context.Context, _ *oracle.Result) string {
			return ""
		},
	}
	pool := &mockPool{}

	w := generateRequest(t, testDeps(matcher, &mockTracker{status: okStatus(0, 10)}, pool, &mockStore{}), "", "", validBody())

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.Data.CharacterImage, "data:image/svg+xml;base64,"))
	assert.False(t, resp.Data.Metadata.HasOptimizedImages)
	assert.Empty(t, pool.added, "placeholders never enter the pool")
}

func TestGenerateYoungVisitorGreeting(t *testing.T) {
	body := validBody()
	body["year"] = "2020"

	w := generateRequest(t, testDeps(&mockMatcher{}, &mockTracker{status: okStatus(0, 10)}, &mockPool{}, &mockStore{}), "", "", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t,
		"Hi Ada! You are just born I guess. But I will still tell your future: The stars giggle in your favor.",
		resp.Data.Prediction,
	)
}

func TestAgeCountsWholeYears(t *testing.T) {
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, age(3, 2014, now), "birthday month already passed")
	assert.Equal(t, 12, age(8, 2014, now), "birthday month is the current month")
	assert.Equal(t, 11, age(12, 2014, now), "birthday month still ahead this year")
}

func saveRequest(t *testing.T, deps Dependencies, userID string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/prediction/save", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("plan_type", "registered")
		}
	}, SaveHandler(deps))

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/prediction/save", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	return w
}

func validSaveBody() map[string]any {
	return map[string]any{
		"characterName": "Duchess Marmalade",
		"prediction":    "The stars giggle in your favor.",
		"question":      "Will I ever find true love under these stars?",
	}
}

func TestSaveRequiresAuthentication(t *testing.T) {
	w := saveRequest(t, testDeps(&mockMatcher{}, &mockTracker{}, &mockPool{}, &mockStore{}), "", validSaveBody())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveInsertsReading(t *testing.T) {
	store := &mockStore{}

	w := saveRequest(t, testDeps(&mockMatcher{}, &mockTracker{}, &mockPool{}, store), "user-1", validSaveBody())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp SaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pred-1", resp.PredictionID)
	assert.False(t, resp.AlreadyExists)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "guest_saved", store.inserted[0].GenerationSource)
	assert.Equal(t, "fortune", store.inserted[0].FormType)
}

func TestSaveDeduplicates(t *testing.T) {
	store := &mockStore{duplicate: &predictions.DuplicateMatch{ID: "pred-existing"}}

	w := saveRequest(t, testDeps(&mockMatcher{}, &mockTracker{}, &mockPool{}, store), "user-1", validSaveBody())

	require.Equal(t, http.StatusOK, w.Code)

	var resp SaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.AlreadyExists)
	assert.Equal(t, "pred-existing", resp.PredictionID)
	assert.Empty(t, store.inserted)
}
