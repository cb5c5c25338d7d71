package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "access_edu"

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// QuizAttempts 已落库的测验作答，result 为 passed/failed
	QuizAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_attempts_total",
			Help:      "Total number of recorded quiz attempts by result",
		},
		[]string{"result"},
	)

	// WeakTopicDuration 单次薄弱知识点统计的耗时
	WeakTopicDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weak_topic_detection_seconds",
			Help:      "Time spent aggregating weak topics for one learner and course",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// CertificateChecks 结业校验次数，按结果 (issued/not_eligible/persistence_failed) 区分
	CertificateChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificate_checks_total",
			Help:      "Total number of certificate eligibility checks by outcome",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// Init 注册全部指标，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizAttempts,
			WeakTopicDuration,
			CertificateChecks,
		)
	})
}

// ObserveAttempt 记录一次作答结果
func ObserveAttempt(passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	QuizAttempts.WithLabelValues(result).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 未匹配路由统一归到一个标签，避免扫描请求撑大基数
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
