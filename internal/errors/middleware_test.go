package errors

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"salesreg/internal/shared/testutil"
)

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		next       http.HandlerFunc
		wantStatus int
		wantLevel  slog.Level
	}{
		{
			name: "success",
			next: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
		},
		{
			name: "client error",
			next: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantLevel:  slog.LevelWarn,
		},
		{
			name: "panic",
			next: func(w http.ResponseWriter, r *http.Request) {
				panic("index out of range")
			},
			wantStatus: http.StatusInternalServerError,
			wantLevel:  slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			w := httptest.NewRecorder()
			mw.Handler(tt.next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health?x=1", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			testutil.AssertLogContains(t, logs, tt.wantLevel, "http request")
			assert.True(t, logs.ContainsAttr("query", "x=1"))
		})
	}
}
