package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

func CreateCircuitBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	var st gobreaker.Settings
	st.Name = name
	st.MaxRequests = 1
	st.Interval = 15 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	// a caller giving up is not a store failure
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	}
	st.OnStateChange = func(cbName string, from gobreaker.State, to gobreaker.State) {
		state := float64(0)
		switch to {
		case gobreaker.StateOpen:
			state = 1
		case gobreaker.StateHalfOpen:
			state = 2
		}
		metrics.CircuitBreakerState.WithLabelValues(cbName).Set(state)

		log.Warn().
			Str("component", "CircuitBreaker").
			Str("circuit", cbName).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](st)
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return cb
}
