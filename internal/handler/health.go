package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/infra"
	"github.com/naimlawani01/facturerapide-api/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity, reports the SMTP breaker state and the
// dead-letter backlog per queue; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		smtpStatus := "not_configured"
		if mailer.IsConfigured() {
			smtpStatus = mailer.BreakerState().String()
		}

		dlq := gin.H{}
		for _, q := range []string{worker.QueueDocuments, worker.QueueEmail} {
			if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
				dlq[q] = n
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"smtp":  smtpStatus,
			"dlq":   dlq,
		})
	}
}
