// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 登録・ログインの結果ラベル。
const (
	OutcomeSuccess            = "success"
	OutcomeValidationFailed   = "validation_failed"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ルーター（結果・ステータスコード）と認証サービス（ハッシュ時間・アカウント数）から利用する。
type MetricsCollector interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
	RecordHTTPStatus(statusCode int)
	ObservePasswordHash(operation string, d time.Duration)
	SetAccountCount(n int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
	hashDuration  *prometheus.HistogramVec
	accounts      prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authapi_registrations_total",
			Help: "結果別のアカウント登録リクエスト数",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authapi_logins_total",
			Help: "結果別のログインリクエスト数",
		}, []string{"outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authapi_http_responses_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		hashDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authapi_password_hash_seconds",
			Help:    "パスワードのハッシュ化・照合にかかった時間（秒）",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "authapi_accounts",
			Help: "保持しているアカウント数",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.httpStatus,
		c.hashDuration,
		c.accounts,
	)

	return c
}

// RecordRegistration は登録リクエストの結果を記録する。
func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

// RecordLogin はログインリクエストの結果を記録する。
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// ObservePasswordHash はハッシュ処理の所要時間を記録する。operationは"hash"または"verify"。
func (c *Collector) ObservePasswordHash(operation string, d time.Duration) {
	c.hashDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetAccountCount は現在のアカウント数を設定する。
func (c *Collector) SetAccountCount(n int) {
	c.accounts.Set(float64(n))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
