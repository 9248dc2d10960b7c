// file: services/pod_service.go
package services

import (
	"PodCTF/database"
	"PodCTF/models"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const teamPodCacheTTL = 30 * time.Second

func teamPodCacheKey(teamID uint32) string {
	return fmt.Sprintf("podctf:team_pod:%d", teamID)
}

// GetTeamPodID 查询队伍当前绑定的运行中 Pod，带 Redis 短 TTL 缓存
// 未绑定返回 (nil, nil)，查询失败返回 error 由调用方决定如何降级
func GetTeamPodID(teamID uint32) (*uint32, error) {
	if database.RDB != nil {
		if val, err := database.RDB.Get(database.Ctx, teamPodCacheKey(teamID)).Result(); err == nil {
			if id64, perr := strconv.ParseUint(val, 10, 32); perr == nil {
				id := uint32(id64)
				return &id, nil
			}
		}
	}

	var pod models.Pod
	err := database.DB.
		Where("team_id = ? AND state = ?", teamID, models.PodStateRunning).
		First(&pod).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if database.RDB != nil {
		database.RDB.Set(database.Ctx, teamPodCacheKey(teamID),
			strconv.FormatUint(uint64(pod.ID), 10), teamPodCacheTTL)
	}
	return &pod.ID, nil
}

// InvalidateTeamPodCache Pod 分配关系变化后清除缓存
func InvalidateTeamPodCache(teamID uint32) {
	if database.RDB != nil {
		database.RDB.Del(database.Ctx, teamPodCacheKey(teamID))
	}
}

// ResolveCurrentPodID 解析当前请求所属的 Pod ID
// 无请求上下文、未登录、未加入队伍、队伍未绑定 Pod 时返回 nil；
// 查询失败记录日志后同样返回 nil（归属不明一律不当作匹配）
func ResolveCurrentPodID(c *gin.Context) *uint32 {
	if c == nil {
		return nil
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDAny.(uint32)
	if !ok {
		return nil
	}

	var member models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to look up team membership for user %d: %v", userID, err)
		}
		return nil
	}

	podID, err := GetTeamPodID(member.TeamID)
	if err != nil {
		log.Printf("Failed to resolve pod for team %d: %v", member.TeamID, err)
		return nil
	}
	return podID
}

// ParsePodOverride 严格解析覆写参数：仅接受非负整数，其他输入一律忽略
func ParsePodOverride(raw string) *uint32 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id64, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint32(id64)
	return &id
}

// ResolvePodIDWithOverride 先走常规解析；解析不到且提交者是管理员时，
// 接受请求携带的显式 pod_id 覆写（不校验 Pod 是否存在，归属校验会自然拦下）
func ResolvePodIDWithOverride(c *gin.Context, override string, role models.UserRole) *uint32 {
	if pod := ResolveCurrentPodID(c); pod != nil {
		return pod
	}
	if role == models.RoleAdmin || role == models.RoleRootAdmin {
		return ParsePodOverride(override)
	}
	return nil
}
