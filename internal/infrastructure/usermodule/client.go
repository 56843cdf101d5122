// Package usermodule talks to the external user-management service that owns
// people records.
package usermodule

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/tracing"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/circuitbreaker"
)

const personSearchPath = "/api/person/search/{external}"

// UnexpectedStatusError is returned for answers other than 200 and 404.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("user module answered HTTP %d", e.StatusCode)
}

// Client implements coach.PersonDirectory over HTTP.
type Client struct {
	http    *resty.Client
	breaker *circuitbreaker.CircuitBreaker
}

// Verify interface implementation at compile time.
var _ coach.PersonDirectory = (*Client)(nil)

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg *config.UserModuleConfig) *Client {
	settings := circuitbreaker.DefaultSettings("user_module")
	settings.IsFailure = isRemoteFailure

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		breaker: circuitbreaker.New(settings),
	}
}

// PersonExists asks the user module for externalID using the caller's token.
func (c *Client) PersonExists(ctx context.Context, externalID, token string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "usermodule.PersonExists",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("person.external", externalID)),
	)
	defer span.End()

	var exists bool
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		req := c.http.R().
			SetContext(ctx).
			SetPathParam("external", externalID)
		if token != "" {
			req.SetAuthToken(token)
		}

		resp, err := req.Get(personSearchPath)
		if err != nil {
			return fmt.Errorf("user module request failed: %w", err)
		}

		switch resp.StatusCode() {
		case http.StatusOK:
			exists = true
			return nil
		case http.StatusNotFound:
			return nil
		default:
			return &UnexpectedStatusError{StatusCode: resp.StatusCode()}
		}
	})
	if err != nil {
		tracing.SetError(ctx, err)
		log.Warn().Err(err).Str("persona_external", externalID).Msg("Person lookup failed")
		return false, err
	}
	return exists, nil
}

// isRemoteFailure keeps auth rejections of a single caller from opening the
// breaker for everyone.
func isRemoteFailure(err error) bool {
	var statusErr *UnexpectedStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
