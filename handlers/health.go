package handlers

import (
	"net/http"

	"lefri/database"
	"lefri/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health monitor snapshot. Storage that is
// not configured does not degrade the status.
func HealthHandler(c *gin.Context) {
	snap := utils.GetHealthStatus()
	status := "ok"
	if database.Connected() && !snap.Mongo {
		status = "degraded"
	}
	for _, up := range snap.Redis {
		if !up {
			status = "degraded"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"mongo":     snap.Mongo,
		"redis":     snap.Redis,
		"checkedAt": snap.CheckedAt,
	})
}
