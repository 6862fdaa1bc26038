package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/dto"
	"post-pilot/cmd/api/services"
	"post-pilot/cmd/api/services/servicetest"
	"post-pilot/llm"
	"post-pilot/models"
	"post-pilot/quota"
)

type testApp struct {
	engine *gin.Engine
	users  *servicetest.Users
	logs   *servicetest.AILogs
	tokens *auth.JWTManager
}

func newTestApp(t *testing.T, health func(context.Context) error, users ...models.User) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := testApp{
		users:  servicetest.NewUsers(users...),
		logs:   &servicetest.AILogs{},
		tokens: auth.NewJWTManager("test-secret", "post-pilot", time.Hour),
	}
	posts := servicetest.NewPosts()
	flowSvc := services.NewFlowService(llm.MockModel{}, app.users, &servicetest.Limiter{Allow: true},
		services.NewStoreUsageRecorder(app.logs), nil, quota.DefaultFreePostLimit)

	app.engine = New(Deps{
		Flows:     flowSvc,
		Posts:     services.NewPostService(posts, flowSvc, nil),
		Dashboard: services.NewDashboardService(app.users, posts, quota.DefaultFreePostLimit),
		Plans:     services.NewPlanService(app.users, quota.DefaultFreePostLimit),
		Tokens:    app.tokens,
		Health:    health,
	})
	return app
}

func (a testApp) do(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.doAs(t, method, path, uid, auth.RoleUser, body)
}

func (a testApp) doAs(t *testing.T, method, path, uid, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		token, err := a.tokens.SignWithRole(uid, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

var generation = map[string]string{
	"topic":          "Hiring junior engineers",
	"tone":           "warm",
	"targetAudience": "startup founders",
	"goal":           "share lessons",
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestApp(t, func(context.Context) error { return errors.New("no primary") })
	w = down.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no primary")
}

func TestFlowRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodPost, "/api/v1/flows/generate", "", generation)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateCountsAndReportsOnDashboard(t *testing.T) {
	app := newTestApp(t, nil, models.User{UID: "u1", Plan: models.PlanFree})

	w := app.do(t, http.MethodPost, "/api/v1/flows/generate", "u1", generation)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Post string `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Post)
	assert.Equal(t, 1, app.users.PostCount("u1"))
	require.Len(t, app.logs.All(), 1)
	assert.Equal(t, "u1", app.logs.All()[0].UserID)

	w = app.do(t, http.MethodGet, "/api/v1/dashboard", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats quota.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.PostsGenerated)
	assert.Equal(t, 4, stats.FreePostsRemaining)
	assert.True(t, stats.ShowQuota)
}

func TestGenerateValidationError(t *testing.T) {
	app := newTestApp(t, nil)
	bad := map[string]string{"topic": "AI", "tone": "warm", "targetAudience": "devs", "goal": "x"}

	w := app.do(t, http.MethodPost, "/api/v1/flows/generate", "u1", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body dto.ValidationErrorDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Error)
	assert.Equal(t, "topic", body.Field)
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flows/generate", bytes.NewBufferString("{"))
	token, _ := app.tokens.Sign("u1")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request_body")
}

func TestGenerateFreeQuotaExhausted(t *testing.T) {
	app := newTestApp(t, nil, models.User{UID: "u1", Plan: models.PlanFree, PostCount: 5})

	w := app.do(t, http.MethodPost, "/api/v1/flows/generate", "u1", generation)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, 5, app.users.PostCount("u1"))
	assert.Empty(t, app.logs.All())
}

func TestPremiumIgnoresQuota(t *testing.T) {
	app := newTestApp(t, nil, models.User{UID: "u1", Plan: models.PlanPremium, PostCount: 50})

	w := app.do(t, http.MethodPost, "/api/v1/flows/generate", "u1", generation)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSummarize(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodPost, "/api/v1/flows/summarize", "u1", map[string]any{
		"postContents": []string{"first post about hiring", "second post about culture"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "summary")
	assert.Contains(t, w.Body.String(), "suggestions")
}

func TestPostLibraryAndCalendar(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodPost, "/api/v1/posts", "u1", dto.SavePostRequest{Content: "**Big** news", Topic: "Launch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/posts", "u1", dto.SavePostRequest{Content: "**Big** news", Topic: "Launch", Tone: "excited"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	// other users cannot see it
	w = app.do(t, http.MethodGet, "/api/v1/posts/"+saved.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/posts/"+saved.ID+"/preview", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\\u003cstrong\\u003eBig")

	at := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w = app.do(t, http.MethodPost, "/api/v1/posts/"+saved.ID+"/schedule", "u1", dto.SchedulePostRequest{ScheduledAt: at})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	from := time.Now().UTC().Format(time.RFC3339)
	to := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	w = app.do(t, http.MethodGet, "/api/v1/calendar?from="+from+"&to="+to, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cal dto.CalendarDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cal))
	require.Len(t, cal.Posts, 1)
	assert.Equal(t, saved.ID, cal.Posts[0].ID)

	w = app.do(t, http.MethodGet, "/api/v1/calendar?from=yesterday", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/posts/"+saved.ID+"/schedule", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodDelete, "/api/v1/posts/"+saved.ID+"/schedule", "u1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/posts/"+saved.ID, "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/api/v1/posts", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestPlans(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodGet, "/api/v1/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plans []dto.PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	assert.Len(t, plans, 2)

	w = app.doAs(t, http.MethodPost, "/api/v1/admin/users/u1/plan", "billing", auth.RoleAdmin, dto.SetPlanRequest{Plan: "gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doAs(t, http.MethodPost, "/api/v1/admin/users/u1/plan", "billing", auth.RoleAdmin, dto.SetPlanRequest{Plan: models.PlanPremium})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var changed dto.UserPlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changed))
	assert.Equal(t, "u1", changed.UID)

	w = app.do(t, http.MethodGet, "/api/v1/dashboard", "u1", nil)
	var stats quota.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, models.PlanPremium, stats.Plan)
	assert.False(t, stats.ShowQuota)
}

func TestUserCannotUpgradeThemselves(t *testing.T) {
	app := newTestApp(t, nil, models.User{UID: "u1", Plan: models.PlanFree, PostCount: 5})

	w := app.do(t, http.MethodPost, "/api/v1/flows/generate", "u1", generation)
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/admin/users/u1/plan", "u1", dto.SetPlanRequest{Plan: models.PlanPremium})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodPost, "/api/v1/users/me/plan", "u1", dto.SetPlanRequest{Plan: models.PlanPremium})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/flows/generate", "u1", generation)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, 5, app.users.PostCount("u1"))
}
