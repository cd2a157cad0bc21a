package middleware

import (
	"log"
	"net/http"
	"time"

	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// SubmitPolicy guards the public intake endpoint: blocked IPs are refused
// outright, everyone else is counted against a fixed window in Redis. The
// limit comes from the rate-limit config row when one exists. Policy-store
// failures fail open — a Redis outage must not stop complaint intake.
func SubmitPolicy(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		blocked, err := s.IsIPBlocked(ip)
		if err != nil {
			log.Printf("WARNING: Blocked-IP check failed for %s: %v", ip, err)
		} else if blocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Submissions from this address are blocked"})
			return
		}

		limit := config.DefaultSubmitLimit
		window := config.DefaultSubmitWindow
		cfg, err := s.GetRateLimitConfig()
		if err != nil {
			log.Printf("WARNING: Rate-limit config load failed: %v", err)
		} else if cfg != nil {
			if !cfg.Enabled {
				c.Next()
				return
			}
			limit = cfg.MaxRequests
			window = time.Duration(cfg.WindowMinutes) * time.Minute
		}

		count, err := s.IncrSubmitCount(ip, window)
		if err != nil {
			log.Printf("WARNING: Rate-limit counter failed for %s: %v", ip, err)
			c.Next()
			return
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many submissions, please try again later",
				"retry_after": window.Seconds(),
			})
			return
		}

		c.Next()
	}
}
