package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/secondbrain/internal/metrics"
	"github.com/hitoshi/secondbrain/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionVerifier   middleware.SessionVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// サービス
	IdentityService IdentityServiceInterface
	ContentService  ContentServiceInterface
	ShareService    ShareServiceInterface

	// メトリクス
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging →（保護ルートのみ）Auth
//
// 共有トークン解決（GET /api/v1/brain/{shareLink}）は公開ルートとして認証の外に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.IdentityService, deps.Metrics)
	contentHandler := NewContentHandler(deps.ContentService, deps.Metrics)
	shareHandler := NewShareHandler(deps.ShareService, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/api/health", handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)

		// 共有トークン解決（公開）
		r.Get("/brain/{shareLink}", shareHandler.Resolve)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.SessionVerifier, deps.Metrics))

			r.Route("/content", func(r chi.Router) {
				r.Post("/", contentHandler.Create)
				r.Get("/", contentHandler.List)
				r.Delete("/", contentHandler.Delete)
			})

			r.Post("/brain/share", shareHandler.Share)
		})
	})

	// Prometheusスクレイプ用エンドポイント
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}

// handleHealth は稼働確認エンドポイント。
// GET /api/health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "Server is running",
	})
}
