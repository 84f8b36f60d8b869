package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"ptd/internal/engine"
	"ptd/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger providers.Logger
	engine engine.EngineInterface
	cache  providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, eng engine.EngineInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger: logger,
		engine: eng,
		cache:  cache,
	}
}

type extendRequest struct {
	TimerID string `json:"timer_id"`
	Minutes int    `json:"minutes"`
}

type ackRequest struct {
	TimerID          string `json:"timer_id"`
	ThresholdMinutes int    `json:"threshold_minutes"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetTimers serves the current timer snapshot, soonest-ending first.
func (ac *ApiController) GetTimers(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "timers", func() (any, error) {
		return ac.engine.Snapshot(), nil
	})
}

// GetAlerts serves active alerts, most urgent threshold first.
func (ac *ApiController) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "alerts", func() (any, error) {
		return ac.engine.ActiveAlerts(), nil
	})
}

// ExtendTimer applies a time extension and returns the updated timer.
func (ac *ApiController) ExtendTimer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload extendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	timer, err := ac.engine.Extend(r.Context(), payload.TimerID, payload.Minutes)
	if err != nil {
		ac.writeExtendError(w, err)
		return
	}

	gson, err := json.Marshal(timer)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeExtendError(w http.ResponseWriter, err error) {
	var transportErr *engine.TransportError
	switch {
	case errors.Is(err, engine.ErrInvalidExtension):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, engine.ErrTimerNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, engine.ErrNotStarted):
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	case errors.As(err, &transportErr):
		ac.logger.Errorf(providers.TypePost, "extension transport failure: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AcknowledgeAlert resolves one active alert.
func (ac *ApiController) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload ackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.engine.Acknowledge(payload.TimerID, payload.ThresholdMinutes); err != nil {
		switch {
		case errors.Is(err, engine.ErrAlertNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		case errors.Is(err, engine.ErrNotStarted):
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
