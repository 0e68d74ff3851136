package controllers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers"

	"github.com/go-kratos/kratos/v2/transport"
)

type headerCarrier stdhttp.Header

func (h headerCarrier) Get(key string) string { return stdhttp.Header(h).Get(key) }
func (h headerCarrier) Set(key, value string) { stdhttp.Header(h).Set(key, value) }
func (h headerCarrier) Add(key, value string) { stdhttp.Header(h).Add(key, value) }
func (h headerCarrier) Values(key string) []string {
	return stdhttp.Header(h).Values(key)
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

type fakeTransport struct {
	header headerCarrier
}

func (t fakeTransport) Kind() transport.Kind                 { return transport.KindHTTP }
func (t fakeTransport) Endpoint() string                     { return "" }
func (t fakeTransport) Operation() string                    { return "" }
func (t fakeTransport) RequestHeader() transport.Header      { return t.header }
func (t fakeTransport) ReplyHeader() transport.Header        { return headerCarrier{} }
func (t fakeTransport) Request() *stdhttp.Request            { return nil }
func (t fakeTransport) PathTemplate() string                 { return "" }
func (t fakeTransport) Response() stdhttp.ResponseWriter     { return nil }
func (t fakeTransport) withHeader(k, v string) fakeTransport { t.header.Set(k, v); return t }

func serverContext(pairs ...string) context.Context {
	tr := fakeTransport{header: headerCarrier{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		tr = tr.withHeader(pairs[i], pairs[i+1])
	}
	return transport.NewServerContext(context.Background(), tr)
}

func TestBaseHandlerExtractMetadata(t *testing.T) {
	claims := map[string]any{
		"sub":   "7b61d0ed-5ba1-4f21-a636-7f9f1a9f9a01",
		"email": "user@example.com",
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	headerValue := base64.RawURLEncoding.EncodeToString(payload)
	ctx := serverContext(
		"x-apigateway-api-userinfo", headerValue,
		"x-session-token", "r:session",
		"x-md-if-match", "etag-1",
	)

	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{})
	meta := handler.ExtractMetadata(ctx)

	if meta.UserID != claims["sub"] {
		t.Fatalf("expected user id to be %q, got %q", claims["sub"], meta.UserID)
	}
	if meta.RawUserInfo != headerValue {
		t.Fatalf("expected raw userinfo to match header")
	}
	if meta.InvalidUserInfo {
		t.Fatalf("expected user info to be valid")
	}
	if meta.SessionToken != "r:session" {
		t.Fatalf("expected session token r:session, got %q", meta.SessionToken)
	}
	if meta.Email != "user@example.com" {
		t.Fatalf("expected email user@example.com, got %q", meta.Email)
	}

	newCtx := controllers.InjectRequestMetadata(ctx, meta)
	stored, ok := controllers.RequestMetadataFromContext(newCtx)
	if !ok {
		t.Fatalf("expected metadata in context")
	}
	if stored != meta {
		t.Fatalf("stored metadata mismatch: %+v vs %+v", stored, meta)
	}
}

func TestBaseHandlerWithoutTransport(t *testing.T) {
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{})
	meta := handler.ExtractMetadata(context.Background())
	if !meta.IsZero() {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}

func TestBaseHandlerWithTimeout(t *testing.T) {
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{Command: 200 * time.Millisecond})
	ctx, cancel := handler.WithTimeout(context.Background(), controllers.HandlerTypeCommand)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected deadline to be set")
	}
	remaining := time.Until(deadline)
	if remaining < 150*time.Millisecond || remaining > 250*time.Millisecond {
		t.Fatalf("expected timeout near 200ms, got %v", remaining)
	}
}

func TestBaseHandlerInvalidUserInfo(t *testing.T) {
	ctx := serverContext("x-apigateway-api-userinfo", "!!!invalid!!!")
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{})
	meta := handler.ExtractMetadata(ctx)
	if !meta.InvalidUserInfo {
		t.Fatalf("expected invalid user info flag")
	}
	if meta.UserID != "" {
		t.Fatalf("expected empty user id, got %q", meta.UserID)
	}
}
