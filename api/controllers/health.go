package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ShubhamSahu-2005/ezwoods-backend/api/responses"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/config"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EzWoods-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EzWoods-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = checkDependency(ctx, db)
		if checks["database"] != "ok" {
			healthy = false
		}
		checks["redis"] = checkDependency(ctx, cache)
		if checks["redis"] != "ok" {
			healthy = false
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

func checkDependency(ctx context.Context, dep pinger) string {
	if dep == nil {
		return "not configured"
	}
	if err := dep.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
