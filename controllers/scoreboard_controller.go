// file: controllers/scoreboard_controller.go
package controllers

import (
	"PodCTF/services"
	"PodCTF/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetScoreboard 查询排行榜
func GetScoreboard(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := services.GetScoreboard()
	if err != nil {
		utils.Error(c, 5000, "排行榜查询失败")
		return
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	utils.Success(c, "success", entries)
}
