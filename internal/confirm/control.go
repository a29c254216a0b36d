// Package confirm implements the confirmation control: it triggers the
// confirmation operation for one token, guards against duplicate
// in-flight submissions and decides where the user lands afterwards.
package confirm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/confirm/internal/authapi"
)

// Route is a front end path the user is sent to after a confirmation.
type Route string

const (
	RouteSuccess Route = "/success"
	RouteError   Route = "/error"
)

// Destination maps a confirmation result to the terminal route.
func Destination(res authapi.Result) Route {
	if res.Outcome == authapi.Confirmed {
		return RouteSuccess
	}
	return RouteError
}

type Control struct {
	Token     string
	Confirmer authapi.Confirmer
	Logger    *zap.SugaredLogger

	// AttemptID generates the ID attached to each attempt's log entries.
	AttemptID func() string

	loading atomic.Bool
}

func NewControl(token string, confirmer authapi.Confirmer, logger *zap.SugaredLogger) *Control {
	return &Control{
		Token:     token,
		Confirmer: confirmer,
		Logger:    logger,
		AttemptID: uuid.NewString,
	}
}

// Loading reports whether a confirmation is in flight.
func (c *Control) Loading() bool {
	return c.loading.Load()
}

// Trigger runs one confirmation attempt and returns the route to send the
// user to. While an attempt is in flight further triggers have no effect
// and report ok=false.
func (c *Control) Trigger(ctx context.Context) (route Route, ok bool) {
	if !c.loading.CompareAndSwap(false, true) {
		return "", false
	}
	defer c.loading.Store(false)

	attempt := c.AttemptID()
	defer func() {
		if p := recover(); p != nil {
			c.Logger.Errorw("confirmation failed",
				"attempt_id", attempt,
				"request_id", authapi.RequestID(ctx),
				"error", fmt.Errorf("confirm: panic: %v", p),
			)
			route, ok = RouteError, true
		}
	}()

	res := c.Confirmer.Confirm(ctx, c.Token)
	route = Destination(res)

	switch res.Outcome {
	case authapi.TransportFailure:
		c.Logger.Errorw("confirmation failed",
			"attempt_id", attempt,
			"request_id", authapi.RequestID(ctx),
			"error", res.Err,
		)
	default:
		c.Logger.Infow("confirmation resolved",
			"attempt_id", attempt,
			"request_id", authapi.RequestID(ctx),
			"outcome", res.Outcome.String(),
			"status", res.Status,
			"route", string(route),
		)
	}
	return route, true
}
