// file: services/scoreboard_service.go
package services

import (
	"PodCTF/database"
	"PodCTF/models"
	"encoding/json"
	"log"
	"time"
)

const scoreboardCacheKey = "podctf:scoreboard"
const scoreboardCacheTTL = 10 * time.Second

type ScoreboardEntry struct {
	Rank          uint      `json:"rank"`
	TeamID        uint32    `json:"team_id"`
	TeamName      string    `json:"team_name"`
	Score         uint      `json:"score"`
	LastSolveTime time.Time `json:"last_solve_time"`
}

// GetScoreboard 计算当前排行榜，结果在 Redis 中短暂缓存
func GetScoreboard() ([]ScoreboardEntry, error) {
	if database.RDB != nil {
		if cached, err := database.RDB.Get(database.Ctx, scoreboardCacheKey).Bytes(); err == nil {
			var entries []ScoreboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		}
	}

	// 通过 JOIN 和 GROUP BY 聚合，一次性计算所有队伍的总分和最后解题时间
	var entries []ScoreboardEntry
	err := database.DB.Table("podctf_submission s").
		Select("s.team_id, SUM(s.score) as score, MAX(s.solving_time) as last_solve_time, t.team_name").
		Joins("JOIN podctf_team t ON s.team_id = t.id").
		Where("t.team_status = ?", models.TeamStatusActive).
		Group("s.team_id, t.team_name").
		Order("score desc, last_solve_time asc").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = uint(i + 1)
	}

	if database.RDB != nil {
		if payload, err := json.Marshal(entries); err == nil {
			database.RDB.Set(database.Ctx, scoreboardCacheKey, payload, scoreboardCacheTTL)
		}
	}
	return entries, nil
}

// InvalidateScoreboardCache 解题成功后让缓存立即失效
func InvalidateScoreboardCache() {
	if database.RDB == nil {
		return
	}
	if err := database.RDB.Del(database.Ctx, scoreboardCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate scoreboard cache: %v", err)
	}
}
