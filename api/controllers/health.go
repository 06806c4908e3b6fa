package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/tableserve-backend/api/responses"
	"github.com/angelmondragon/tableserve-backend/pkg/config"
	"github.com/angelmondragon/tableserve-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/redis"
)

const readyTimeout = 2 * time.Second

const envHeader = "X-Tableserve-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when Postgres and Redis both answer a ping.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
