package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vivaai_backend/internal/config"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecentFinder struct {
	records []model.Interview
	err     error
}

func (f *fakeRecentFinder) FindRecentByUser(ctx context.Context, userID uint, n int) ([]model.Interview, error) {
	return f.records, f.err
}

// newCoachGateway 起一个扮演 AI 网关的测试服务，按给定状态码应答
func newCoachGateway(t *testing.T, status int, feedback model.CoachingFeedback) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		content, err := json.Marshal(feedback)
		require.NoError(t, err)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": string(content)}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newCoachingRouter(gatewayURL string, finder *fakeRecentFinder) *gin.Engine {
	ai := service.NewAIService(config.AIConfig{
		BaseURL:        gatewayURL,
		Model:          "coach-test",
		RequestTimeout: 5 * time.Second,
	})
	ctrl := NewAnalyticsController(nil, nil, ai, finder)

	r := gin.New()
	r.Use(asUser(1))
	r.POST("/coaching/feedback", ctrl.CoachingFeedback)
	return r
}

func recentRecords() []model.Interview {
	return []model.Interview{
		{UserID: 1, InterviewType: model.TypeTechnical, Score: 8, Confidence: model.ConfidenceHigh},
		{UserID: 1, InterviewType: model.TypeTechnical, Score: 7, Confidence: model.ConfidenceMedium, Hesitation: true},
		{UserID: 1, InterviewType: model.TypeBehavioral, Score: 6, Confidence: model.ConfidenceMedium},
	}
}

func TestCoachingFeedbackWithoutRecords(t *testing.T) {
	srv := newCoachGateway(t, http.StatusOK, model.CoachingFeedback{})
	defer srv.Close()

	r := newCoachingRouter(srv.URL, &fakeRecentFinder{})
	w := doJSON(t, r, http.MethodPost, "/coaching/feedback", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoachingFeedbackGatewayDown(t *testing.T) {
	srv := newCoachGateway(t, http.StatusServiceUnavailable, model.CoachingFeedback{})
	defer srv.Close()

	r := newCoachingRouter(srv.URL, &fakeRecentFinder{records: recentRecords()})
	w := doJSON(t, r, http.MethodPost, "/coaching/feedback", gin.H{})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCoachingFeedbackSuccess(t *testing.T) {
	want := model.CoachingFeedback{
		Strength:        "Strong technical depth on recent answers.",
		Observation:     "Scores dip on behavioral questions.",
		CoachingInsight: "Structured storytelling lags behind technical reasoning.",
		ActionableTip:   "Rehearse two STAR stories before the next session.",
	}
	srv := newCoachGateway(t, http.StatusOK, want)
	defer srv.Close()

	r := newCoachingRouter(srv.URL, &fakeRecentFinder{records: recentRecords()})
	w := doJSON(t, r, http.MethodPost, "/coaching/feedback", gin.H{"interviewType": "technical"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.CoachingFeedback `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, want, resp.Data)
}
