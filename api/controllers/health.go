package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/opticore/lenscard-backend/api/responses"
	"github.com/opticore/lenscard-backend/pkg/config"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lenscard-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. Redis is optional; a nil pinger
// means the deployment runs without it and the check is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lenscard-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		if dbP == nil {
			checks["database"] = "missing"
			failed = true
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "down"
			failed = true
			if logg != nil {
				logg.Error(ctx, "readiness: database ping failed", err)
			}
		} else {
			checks["database"] = "ok"
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
				failed = true
				if logg != nil {
					logg.Error(ctx, "readiness: redis ping failed", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		if failed {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
