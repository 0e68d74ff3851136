package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUpstreamStatus 表示上游返回了非 2xx 状态码。
var ErrUpstreamStatus = errors.New("clients: unexpected upstream status")

const maxResponseBytes = 1 << 20

// resilientClient 对 GET 请求统一施加超时、指数退避重试与熔断。
type resilientClient struct {
	name       string
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	backoff    time.Duration
	log        *log.Helper
}

func newResilientClient(name string, cfg configloader.HTTPClientConfig, logger log.Logger) *resilientClient {
	helper := log.NewHelper(log.With(logger, "client", name))
	threshold := cfg.BreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		IsSuccessful: func(err error) bool {
			var perm *permanentStatus
			return err == nil || errors.As(err, &perm)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			helper.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &resilientClient{
		name: name,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker:    breaker,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.InitialBackoff,
		log:        helper,
	}
}

// get 返回响应体。4xx 视为永久错误不再重试，熔断打开时直接失败。
func (c *resilientClient) get(ctx context.Context, url string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	if c.backoff > 0 {
		policy.InitialInterval = c.backoff
	}
	retries := c.maxRetries
	if retries < 0 {
		retries = 0
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx)

	var body []byte
	operation := func() error {
		out, err := c.breaker.Execute(func() (interface{}, error) {
			return c.fetch(ctx, url)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			var perm *permanentStatus
			if errors.As(err, &perm) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = out.([]byte)
		return nil
	}
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return body, nil
}

type permanentStatus struct {
	code int
}

func (e *permanentStatus) Error() string {
	return fmt.Sprintf("%s: %d", ErrUpstreamStatus, e.code)
}

func (e *permanentStatus) Unwrap() error { return ErrUpstreamStatus }

func (c *resilientClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &permanentStatus{code: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}
