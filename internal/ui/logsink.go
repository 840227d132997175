package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mvphrm/internal/logging"
)

// LogSink receives forwarded log entries and re-emits them through logger at
// their own level.
func LogSink(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entry logging.Entry
		if err := c.ShouldBindJSON(&entry); err != nil {
			logger.Error("failed to process frontend log", zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
			return
		}
		msg := entry.Message
		if msg == "" {
			msg = "Frontend log"
		}
		msg = "[Frontend] " + msg
		fields := []zap.Field{zap.String("source", entry.Logger), zap.Inline(entry)}

		switch entry.Level {
		case logging.LevelError:
			logger.Error(msg, fields...)
		case logging.LevelWarn:
			logger.Warn(msg, fields...)
		case logging.LevelDebug:
			logger.Debug(msg, fields...)
		default:
			logger.Info(msg, fields...)
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
