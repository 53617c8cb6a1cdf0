package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/secondbrain/internal/metrics"
	"github.com/hitoshi/secondbrain/internal/middleware"
)

// newTestRecorder はテスト用の独立したメトリクスレコーダーを生成する。
func newTestRecorder() metrics.Recorder {
	return metrics.NewCollector(prometheus.NewRegistry())
}

// withUserID は認証ミドルウェア通過後と同じ状態のリクエストを作る。
func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// decodeErrorBody はエラーレスポンスのボディを解析する。
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) apiErrorResponse {
	t.Helper()
	var body apiErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v\nraw: %s", err, w.Body.String())
	}
	return body
}
