// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// ハンドラーおよびミドルウェアから利用する。
type Recorder interface {
	RecordSignup()
	RecordSignin(success bool)
	RecordTokenVerifyFail()
	RecordContentCreated()
	RecordShareCreated()
	RecordShareResolve(found bool)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signupTotal     prometheus.Counter
	signinTotal     *prometheus.CounterVec
	tokenVerifyFail prometheus.Counter
	contentCreated  prometheus.Counter
	shareCreated    prometheus.Counter
	shareResolve    *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signupTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "secondbrain_signup_total",
			Help: "ユーザー登録成功の合計数",
		}),
		signinTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "secondbrain_signin_total",
			Help: "サインイン試行の結果別合計数",
		}, []string{"result"}),
		tokenVerifyFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "secondbrain_token_verify_fail_total",
			Help: "セッショントークン検証失敗の合計数",
		}),
		contentCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "secondbrain_content_created_total",
			Help: "コンテンツ作成成功の合計数",
		}),
		shareCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "secondbrain_share_created_total",
			Help: "共有トークン発行の合計数（再発行を含む）",
		}),
		shareResolve: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "secondbrain_share_resolve_total",
			Help: "共有トークン解決の結果別合計数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "secondbrain_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "secondbrain_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signupTotal,
		c.signinTotal,
		c.tokenVerifyFail,
		c.contentCreated,
		c.shareCreated,
		c.shareResolve,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSignup はユーザー登録成功を記録する。
func (c *Collector) RecordSignup() {
	c.signupTotal.Inc()
}

// RecordSignin はサインイン試行の結果を記録する。
func (c *Collector) RecordSignin(success bool) {
	c.signinTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordTokenVerifyFail はセッショントークン検証失敗を記録する。
func (c *Collector) RecordTokenVerifyFail() {
	c.tokenVerifyFail.Inc()
}

// RecordContentCreated はコンテンツ作成成功を記録する。
func (c *Collector) RecordContentCreated() {
	c.contentCreated.Inc()
}

// RecordShareCreated は共有トークン発行を記録する。
func (c *Collector) RecordShareCreated() {
	c.shareCreated.Inc()
}

// RecordShareResolve は共有トークン解決の結果を記録する。
func (c *Collector) RecordShareResolve(found bool) {
	c.shareResolve.WithLabelValues(resultLabel(found)).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ Recorder = (*Collector)(nil)
