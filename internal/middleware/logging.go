// internal/middleware/logging.go
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
)

// AuditLogMiddleware persists every mutating request against the approval
// workflow: which actor, through which channel, touched which rate card.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		actor := "unknown"
		channel := string(models.ApprovalChannelInternal)
		if name, exists := c.Get("admin_name"); exists {
			if nameStr, ok := name.(string); ok && nameStr != "" {
				actor = nameStr
			}
		} else if strings.HasPrefix(c.Request.URL.Path, "/public/") {
			channel = string(models.ApprovalChannelPublic)
			actor = "client"
		}

		auditLog := &models.AuditLog{
			Actor:      actor,
			Channel:    channel,
			Action:     c.Request.Method + " " + c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}

		if id := extractRateCardID(c.Request.URL.Path); id != nil {
			auditLog.RateCardID = id
		}

		// Save audit log asynchronously
		go func() {
			if err := db.Create(auditLog).Error; err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()

		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": duration.Milliseconds(),
			"ip":       c.ClientIP(),
			"actor":    actor,
			"channel":  channel,
		}).Info("Request processed")
	}
}

func extractRateCardID(path string) *uuid.UUID {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if parsed, err := uuid.Parse(part); err == nil {
			return &parsed
		}
	}
	return nil
}

func RequestLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return ""
	})
}
