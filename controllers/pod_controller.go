// file: controllers/pod_controller.go
package controllers

import (
	"PodCTF/database"
	"PodCTF/models"
	"PodCTF/services"
	"PodCTF/utils"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// AdminCreatePod 管理员创建 Pod（可选同时绑定队伍）
// 先落库拿到 Pod ID，再创建 Swarm 服务把 Pod ID 注入环境；服务创建失败时回收记录
func AdminCreatePod(c *gin.Context) {
	var req struct {
		TeamID      *uint32 `json:"team_id"`
		DockerImage string  `json:"docker_image" binding:"required"`
		DockerPorts string  `json:"docker_ports"`
		DurationMin uint    `json:"duration_min"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	if req.TeamID != nil {
		var team models.Team
		if err := database.DB.First(&team, *req.TeamID).Error; err != nil {
			utils.Error(c, 4004, "队伍不存在")
			return
		}
		// 一支队伍同时只允许绑定一个运行中的 Pod
		var count int64
		database.DB.Model(&models.Pod{}).
			Where("team_id = ? AND state = ?", *req.TeamID, models.PodStateRunning).
			Count(&count)
		if count > 0 {
			utils.Error(c, 7004, "该队伍已绑定运行中的 Pod")
			return
		}
	}

	duration := time.Duration(req.DurationMin) * time.Minute
	if duration == 0 {
		duration = 4 * time.Hour
	}

	now := time.Now()
	pod := models.Pod{
		TeamID:      req.TeamID,
		DockerImage: req.DockerImage,
		DockerPorts: req.DockerPorts,
		State:       models.PodStateRunning,
		StartTime:   now,
		EndTime:     now.Add(duration),
	}
	if err := database.DB.Create(&pod).Error; err != nil {
		utils.Error(c, 5000, "Failed to save pod record: "+err.Error())
		return
	}

	serviceID, err := services.CreatePodService(pod)
	if err != nil {
		database.DB.Delete(&pod) // 服务没起来，不保留孤立记录
		utils.Error(c, 5000, "Docker API Error: "+err.Error())
		return
	}

	pod.ServiceID = serviceID
	pod.PodName = fmt.Sprintf("pod-%d", pod.ID)
	if err := database.DB.Save(&pod).Error; err != nil {
		_ = services.DestroyPodService(serviceID)
		utils.Error(c, 5000, "Failed to save pod record: "+err.Error())
		return
	}

	if req.TeamID != nil {
		services.InvalidateTeamPodCache(*req.TeamID)
	}

	connectionInfo, err := services.PodConnectionInfo(serviceID)
	if err != nil {
		utils.Error(c, 5000, "Pod started but failed to get connection info.")
		return
	}

	utils.Success(c, "Pod created successfully", gin.H{
		"id":              pod.ID,
		"team_id":         pod.TeamID,
		"end_time":        pod.EndTime.Format("2006-01-02 15:04:05"),
		"connection_info": connectionInfo,
	})
}

// AdminAssignPod 把已有 Pod 绑定到队伍（或解绑）
func AdminAssignPod(c *gin.Context) {
	podID, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		TeamID *uint32 `json:"team_id"` // 为空表示解绑
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var pod models.Pod
	if err := database.DB.First(&pod, podID).Error; err != nil {
		utils.Error(c, 4004, "Pod 不存在")
		return
	}
	if pod.State != models.PodStateRunning {
		utils.Error(c, 7002, "Pod 已停止，无法绑定")
		return
	}

	if req.TeamID != nil {
		var team models.Team
		if err := database.DB.First(&team, *req.TeamID).Error; err != nil {
			utils.Error(c, 4004, "队伍不存在")
			return
		}
		var count int64
		database.DB.Model(&models.Pod{}).
			Where("team_id = ? AND state = ? AND id != ?", *req.TeamID, models.PodStateRunning, pod.ID).
			Count(&count)
		if count > 0 {
			utils.Error(c, 7004, "该队伍已绑定运行中的 Pod")
			return
		}
	}

	oldTeamID := pod.TeamID
	pod.TeamID = req.TeamID
	if err := database.DB.Save(&pod).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	// 新旧队伍的解析缓存都要失效
	if oldTeamID != nil {
		services.InvalidateTeamPodCache(*oldTeamID)
	}
	if req.TeamID != nil {
		services.InvalidateTeamPodCache(*req.TeamID)
	}

	utils.Success(c, "Pod assignment updated", gin.H{
		"pod_id":  pod.ID,
		"team_id": pod.TeamID,
	})
}

// AdminDestroyPod 销毁 Pod 服务并标记记录
func AdminDestroyPod(c *gin.Context) {
	podID, _ := strconv.Atoi(c.Param("id"))

	var pod models.Pod
	if err := database.DB.First(&pod, podID).Error; err != nil {
		utils.Error(c, 4004, "Pod 不存在")
		return
	}
	if pod.State == models.PodStateDestroyed {
		utils.Error(c, 7003, "Pod 已销毁")
		return
	}

	if pod.ServiceID != "" {
		if err := services.DestroyPodService(pod.ServiceID); err != nil {
			utils.Error(c, 5000, "Docker API Error: "+err.Error())
			return
		}
	}

	pod.State = models.PodStateDestroyed
	if err := database.DB.Save(&pod).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	if pod.TeamID != nil {
		services.InvalidateTeamPodCache(*pod.TeamID)
	}

	utils.Success(c, "Pod destroyed successfully", nil)
}

// AdminListPods 管理员查询 Pod 列表
func AdminListPods(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	state := c.Query("state")

	db := database.DB.Model(&models.Pod{})
	if state != "" {
		db = db.Where("state = ?", models.PodState(state))
	}

	var total int64
	db.Count(&total)

	var pods []models.Pod
	db.Order("id desc").Offset((page - 1) * limit).Limit(limit).Find(&pods)

	items := make([]gin.H, 0, len(pods))
	for _, p := range pods {
		items = append(items, gin.H{
			"id":           p.ID,
			"team_id":      p.TeamID,
			"pod_name":     p.PodName,
			"docker_image": p.DockerImage,
			"state":        p.State,
			"start_time":   p.StartTime.Format("2006-01-02 15:04:05"),
			"end_time":     p.EndTime.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, "success", gin.H{
		"total": total,
		"pods":  items,
	})
}

// AdminGeneratePodFlagMap 为所有未销毁的 Pod 批量生成随机 Flag，
// 返回可直接用于题目 pod_flag_map 字段的文本
func AdminGeneratePodFlagMap(c *gin.Context) {
	var pods []models.Pod
	if err := database.DB.
		Where("state != ?", models.PodStateDestroyed).
		Find(&pods).Error; err != nil {
		utils.Error(c, 5000, "查询失败: "+err.Error())
		return
	}
	if len(pods) == 0 {
		utils.Error(c, 7005, "没有可用的 Pod")
		return
	}

	mapping := make(map[uint32]string, len(pods))
	for _, p := range pods {
		mapping[p.ID] = utils.GeneratePodFlag()
	}

	utils.Success(c, "success", gin.H{
		"count":        len(mapping),
		"pod_flag_map": services.FormatPodFlagMap(mapping),
	})
}

// GetMyPod 用户查询本队 Pod 及连接信息
func GetMyPod(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var userTeam models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&userTeam).Error; err != nil {
		utils.Error(c, 3005, "你尚未加入任何队伍")
		return
	}

	var pod models.Pod
	if err := database.DB.
		Where("team_id = ? AND state = ?", userTeam.TeamID, models.PodStateRunning).
		First(&pod).Error; err != nil {
		utils.Error(c, 7005, "队伍尚未分配 Pod")
		return
	}

	connectionInfo := make(map[string]string)
	if pod.ServiceID != "" {
		info, err := services.PodConnectionInfo(pod.ServiceID)
		if err == nil {
			connectionInfo = info
		}
	}

	utils.Success(c, "success", gin.H{
		"pod_id":          pod.ID,
		"state":           pod.State,
		"end_time":        pod.EndTime.Format("2006-01-02 15:04:05"),
		"connection_info": connectionInfo,
	})
}
