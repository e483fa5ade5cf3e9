package client

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/metrics"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const userAgent = "SocialCommerce-CLI/0.1.0"

// Options configures the backend HTTP client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	// Transport is wrapped with otelhttp; nil means http.DefaultTransport
	Transport http.RoundTripper
}

// OptionsFromConfig reads api.* keys
func OptionsFromConfig() Options {
	return Options{
		BaseURL:    config.GetString("api.base_url"),
		Timeout:    time.Duration(config.GetInt("api.timeout")) * time.Second,
		RetryCount: config.GetInt("api.retry_count"),
	}
}

// New builds a resty client bound to sess. Every request carries the
// session's bearer token; a 401 response expires the session.
func New(opts Options, sess *session.Session) *resty.Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c := resty.New()
	c.SetTransport(otelhttp.NewTransport(base, otelhttp.WithTracerProvider(otel.GetTracerProvider())))
	c.SetBaseURL(opts.BaseURL)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	c.SetHeader("User-Agent", userAgent)
	c.SetJSONMarshaler(json.Marshal)
	c.SetJSONUnmarshaler(json.Unmarshal)

	// Only idempotent reads are retried
	c.SetRetryCount(opts.RetryCount)
	c.SetRetryWaitTime(200 * time.Millisecond)
	c.SetRetryMaxWaitTime(2 * time.Second)
	c.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
			return false
		}
		return err != nil || resp.StatusCode() >= 500
	})

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.Header.Set("X-Request-ID", uuid.NewString())
		if sess != nil {
			if token := sess.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		if sc := trace.SpanContextFromContext(req.Context()); sc.HasTraceID() {
			logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "trace_id", sc.TraceID().String())
		} else {
			logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		}
		return nil
	})

	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "elapsed", resp.Time())
		metrics.ObserveHTTP(resp.Request.Method, strconv.Itoa(resp.StatusCode()), resp.Time())

		if resp.StatusCode() == http.StatusUnauthorized && sess != nil {
			if sess.Expire() {
				logger.Warn("Session expired, sign in again", "url", resp.Request.URL)
			}
		}
		return nil
	})

	c.OnError(func(req *resty.Request, err error) {
		logger.Debug("HTTP Error", "method", req.Method, "url", req.URL, "error", err)
		metrics.ObserveHTTP(req.Method, "error", time.Since(req.Time))
	})

	return c
}

var (
	mu         sync.Mutex
	httpClient *resty.Client
	current    *session.Session
)

// Init builds the process-wide client from config for sess
func Init(sess *session.Session) {
	mu.Lock()
	defer mu.Unlock()
	current = sess
	httpClient = New(OptionsFromConfig(), sess)
}

// GetClient returns the process-wide client, building an anonymous one if
// Init was never called
func GetClient() *resty.Client {
	mu.Lock()
	defer mu.Unlock()
	if httpClient == nil {
		httpClient = New(OptionsFromConfig(), current)
	}
	return httpClient
}

// Session returns the session the process-wide client was built for
func Session() *session.Session {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Reset drops the process-wide client
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	httpClient = nil
	current = nil
}
