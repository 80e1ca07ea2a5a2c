package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnsphere_backend/internal/session"
	"learnsphere_backend/internal/util"
	"learnsphere_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestAttemptErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown test", util.ErrTestNotFound, http.StatusNotFound},
		{"unknown attempt", util.ErrAttemptNotFound, http.StatusNotFound},
		{"completed attempt", util.ErrAttemptCompleted, http.StatusConflict},
		{"terminal session", session.ErrCompleted, http.StatusConflict},
		{"incomplete answer set", util.ErrAnswerSetIncomplete, http.StatusConflict},
		{"unpublished test", util.ErrTestNotPublished, http.StatusForbidden},
		{"empty answer", util.ErrNoAnswerSelected, http.StatusBadRequest},
		{"question not in attempt", util.ErrQuestionNotInAttempt, http.StatusBadRequest},
		{"answer already graded", session.ErrAnswerLocked, http.StatusBadRequest},
		{"navigate past last question", session.ErrAtLastQuestion, http.StatusBadRequest},
		{"jump out of range", session.ErrIndexOutOfRange, http.StatusBadRequest},
		{"storage failure stays generic", errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)

			attemptError(ctx, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var body util.Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if body.Code != tc.wantStatus {
				t.Fatalf("envelope code = %d, want %d", body.Code, tc.wantStatus)
			}
		})
	}
}
