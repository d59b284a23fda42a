package controllers

import (
	"context"
	"net/http"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EVMarket-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the session store. The marketplace backend is not
// probed here; reads degrade gracefully when it is down.
func HealthReady(cfg *config.Config, redis pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EVMarket-Env", cfg.App.Env)
		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
