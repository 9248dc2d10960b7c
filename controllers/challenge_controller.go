// file: controllers/challenge_controller.go
package controllers

import (
	"PodCTF/database"
	"PodCTF/dto"
	"PodCTF/mappers"
	"PodCTF/models"
	"PodCTF/services"
	"PodCTF/utils"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errNotInTeam     = errors.New("你尚未加入队伍")
	errChallengeGone = errors.New("题目不存在")
	errAlreadySolved = errors.New("你所在的队伍已解出此题")
	errWrongFlag     = errors.New("Flag 错误")
)

// CreateChallenge —— 创建题目，Pod Flag 映射与题目本体在同一事务内落库
func CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize() // 兼容 camelCase / snake_case

	// 必填校验（统一在这里做，避免绑定阶段因别名导致的校验失败）
	if req.ChallengeName == "" || req.Author == "" || req.Description == "" || req.InitialScore == 0 {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}
	if req.ChallengeType != models.ChallengeTypeStandard && req.ChallengeType != models.ChallengeTypePerPod {
		utils.Error(c, 1001, "challenge_type 取值无效（standard/per_pod）")
		return
	}
	if req.ChallengeType == models.ChallengeTypeStandard && strings.TrimSpace(req.StaticFlag) == "" {
		utils.Error(c, 1002, "普通题目必须提供 Flag")
		return
	}
	if req.MinScore > req.InitialScore {
		utils.Error(c, 1001, "min_score 不能大于 initial_score")
		return
	}
	if req.Difficulty != "easy" && req.Difficulty != "medium" && req.Difficulty != "hard" {
		utils.Error(c, 1001, "difficulty 取值无效（easy/medium/hard）")
		return
	}

	// Pod Flag 映射在事务开始前解析，格式错误时整个创建操作失败
	mapping, err := services.ParsePodFlagMap(req.PodFlagMap)
	if err != nil {
		utils.Error(c, 1003, "Pod Flag 映射格式错误: "+err.Error())
		return
	}

	var existing models.Challenge
	if err := database.DB.Where("challenge_name = ?", req.ChallengeName).First(&existing).Error; err == nil {
		utils.Error(c, 4001, "题目名称已存在")
		return
	}

	chal := mappers.MapCreateReqToModel(req)

	// 题目与全部 Flag 记录同事务写入：要么全部落库，要么全部回滚
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chal).Error; err != nil {
			return err
		}
		if staticFlag := strings.TrimSpace(req.StaticFlag); staticFlag != "" {
			flag := models.Flag{
				ChallengeID: chal.ID,
				Type:        models.FlagTypeStatic,
				Content:     staticFlag,
			}
			if err := tx.Create(&flag).Error; err != nil {
				return err
			}
		}
		return services.CreatePodSpecificFlags(tx, chal.ID, mapping)
	})
	if err != nil {
		utils.Error(c, 5000, "创建题目失败: "+err.Error())
		return
	}

	utils.Success(c, "Challenge created successfully", gin.H{"id": chal.ID})
}

// ListChallenges —— 用户可见的题目列表
func ListChallenges(c *gin.Context) {
	var challenges []models.Challenge
	db := database.DB.Model(&models.Challenge{}).
		Where("state = ?", models.ChallengeStateVisible)

	if err := db.Find(&challenges).Error; err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	items := make([]dto.ChallengeItemResp, 0, len(challenges))
	for _, ch := range challenges {
		items = append(items, mappers.MapModelToItemResp(ch))
	}

	utils.Success(c, "success", gin.H{
		"total":      len(items),
		"challenges": items,
	})
}

// GetChallengeDetail —— 用户可见的题目详情
// 描述按查看者解析到的 Pod 做占位符替换后再渲染
func GetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		utils.Error(c, 4004, "题目不存在")
		return
	}
	if challenge.State != models.ChallengeStateVisible {
		utils.Error(c, 4003, "题目不可见")
		return
	}

	pod := services.ResolveCurrentPodID(c)
	renderer := services.GetChallengeType(challenge.ChallengeType)
	descriptionHTML := renderer.RenderDescription(challenge.Description, pod)

	utils.Success(c, "success", mappers.MapModelToDetailResp(challenge, descriptionHTML))
}

// SubmitFlag —— 提交 Flag 并处理分数衰减、队伍判重等
// Pod 解析在任何比较发生之前完成并固定，请求中途的 Pod 重分配不会产生混合视角
func SubmitFlag(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))

	var req dto.SubmitFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	// 从中间件读取用户信息
	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}
	userID := userIDAny.(uint32)
	role, _ := c.Get("user_role")
	userRole, _ := role.(models.UserRole)

	// 覆写参数优先取 query，其次取请求体；仅管理员生效
	override := c.Query("pod_id")
	if override == "" {
		override = req.PodID
	}
	pod := services.ResolvePodIDWithOverride(c, override, userRole)

	var teamID uint32
	var result models.FlagResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 必须加入队伍
		var userTeam models.TeamMember
		if err := tx.Where("user_id = ?", userID).First(&userTeam).Error; err != nil {
			return errNotInTeam
		}
		teamID = userTeam.TeamID

		// 对题目行加锁，避免并发更新
		var challenge models.Challenge
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&challenge, challengeID).Error; err != nil {
			return errChallengeGone
		}

		// 同队伍重复解题判定
		var existingSubmission models.Submission
		tx.Where("challenge_id = ? AND team_id = ?", challengeID, userTeam.TeamID).
			First(&existingSubmission)
		if existingSubmission.ID != 0 {
			result = models.FlagResultDuplicate
			return errAlreadySolved
		}

		flags, err := services.LoadChallengeFlags(tx, uint32(challengeID))
		if err != nil {
			return err
		}
		matched, _ := services.CheckSubmission(flags, req.Flag, pod)
		if !matched {
			result = models.FlagResultWrong
			return errWrongFlag
		}
		result = models.FlagResultCorrect

		// 写入解题记录
		submission := models.Submission{
			ChallengeID: uint32(challengeID),
			UserID:      userID,
			TeamID:      userTeam.TeamID,
			PodID:       pod,
			Score:       challenge.CurrentScore,
			SolvingTime: time.Now(),
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		// 分数衰减：每解出一次衰减 initial_score * decay_ratio（至少 1 分）
		challenge.SolvedCount++
		decay := uint(math.Round(float64(challenge.InitialScore) * float64(challenge.DecayRatio)))
		if decay == 0 && challenge.DecayRatio > 0 {
			decay = 1
		}
		newScore := int(challenge.CurrentScore) - int(decay)
		if newScore < int(challenge.MinScore) {
			newScore = int(challenge.MinScore)
		}
		challenge.CurrentScore = uint(newScore)

		return tx.Save(&challenge).Error
	})

	// 提交日志在事务外写入，错误提交也要留痕
	if teamID != 0 && result != "" {
		logEntry := models.SubmissionLog{
			ChallengeID:    uint32(challengeID),
			TeamID:         teamID,
			UserID:         userID,
			PodID:          pod,
			SubmittedFlag:  req.Flag,
			FlagResult:     result,
			SubmissionTime: time.Now(),
			IPAddress:      c.ClientIP(),
		}
		if logErr := database.DB.Create(&logEntry).Error; logErr != nil {
			log.Printf("Failed to record submission log: %v", logErr)
		}
	}

	if err != nil {
		utils.Error(c, 5001, err.Error())
		return
	}

	services.InvalidateScoreboardCache()
	utils.Success(c, "Flag 正确！", gin.H{})
}

// AdminListChallenges —— 管理员查询题目列表（可见/隐藏均可，支持筛选+分页）
func AdminListChallenges(c *gin.Context) {
	challengeType := strings.TrimSpace(c.Query("challenge_type")) // standard/per_pod
	diff := strings.TrimSpace(c.Query("difficulty"))              // easy/medium/hard
	state := strings.TrimSpace(c.Query("state"))                  // visible/hidden
	kw := strings.TrimSpace(c.Query("keyword"))                   // 模糊匹配 name/description
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "10")

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.DB.Model(&models.Challenge{})

	if challengeType != "" {
		db = db.Where("challenge_type = ?", challengeType)
	}
	if diff != "" {
		db = db.Where("difficulty = ?", models.ChallengeDifficulty(diff))
	}
	if state != "" {
		db = db.Where("state = ?", models.ChallengeState(state))
	}
	if kw != "" {
		like := "%" + kw + "%"
		db = db.Where("challenge_name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		utils.Error(c, 5000, "查询失败: "+err.Error())
		return
	}

	var list []models.Challenge
	if err := db.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		utils.Error(c, 5000, "查询失败: "+err.Error())
		return
	}

	items := make([]dto.AdminChallengeItemResp, 0, len(list))
	for _, ch := range list {
		items = append(items, dto.AdminChallengeItemResp{
			ID:            ch.ID,
			ChallengeName: ch.ChallengeName,
			ChallengeType: ch.ChallengeType,
			Difficulty:    string(ch.Difficulty),
			State:         string(ch.State),
			CurrentScore:  ch.CurrentScore,
			SolvedCount:   ch.SolvedCount,
			UpdatedAt:     ch.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, "success", gin.H{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"challenges": items,
	})
}

// AdminGetChallengeDetail —— 管理员查询题目详情
// Pod Flag 映射从已存储的记录重建为规范文本回显
func AdminGetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var ch models.Challenge
	if err := database.DB.First(&ch, id).Error; err != nil {
		utils.Error(c, 4004, "题目不存在")
		return
	}

	flags, err := services.LoadChallengeFlags(nil, ch.ID)
	if err != nil {
		utils.Error(c, 5000, "Flag 查询失败")
		return
	}

	var staticFlag string
	for _, f := range flags {
		if f.Type == models.FlagTypeStatic {
			staticFlag = f.Content
			break
		}
	}
	podFlagMap := services.FormatPodFlagMap(services.BuildPodFlagMap(flags))

	utils.Success(c, "success", mappers.MapModelToAdminDetailResp(ch, staticFlag, podFlagMap))
}

// AdminUpdateChallenge —— 管理员编辑题目
// 提交了 pod_flag_map 时在同一事务内整体替换该题的 Pod Flag 映射
func AdminUpdateChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req dto.UpdateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var ch models.Challenge
	if err := database.DB.First(&ch, id).Error; err != nil {
		utils.Error(c, 4004, "题目不存在")
		return
	}

	// 映射解析放在事务前，格式错误时不触碰任何数据
	var mapping map[uint32]string
	if req.PodFlagMap != nil {
		parsed, err := services.ParsePodFlagMap(*req.PodFlagMap)
		if err != nil {
			utils.Error(c, 1003, "Pod Flag 映射格式错误: "+err.Error())
			return
		}
		mapping = parsed
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.State != nil {
			ch.State = models.ChallengeState(*req.State)
		}
		if req.Hint != nil {
			ch.Hint = *req.Hint
		}
		if req.Difficulty != nil {
			ch.Difficulty = models.ChallengeDifficulty(*req.Difficulty)
		}
		if req.Description != nil {
			ch.Description = *req.Description
		}
		if err := tx.Save(&ch).Error; err != nil {
			return err
		}

		if req.StaticFlag != nil {
			if err := tx.
				Where("challenge_id = ? AND type = ?", ch.ID, models.FlagTypeStatic).
				Delete(&models.Flag{}).Error; err != nil {
				return err
			}
			if staticFlag := strings.TrimSpace(*req.StaticFlag); staticFlag != "" {
				flag := models.Flag{
					ChallengeID: ch.ID,
					Type:        models.FlagTypeStatic,
					Content:     staticFlag,
				}
				if err := tx.Create(&flag).Error; err != nil {
					return err
				}
			}
		}

		if req.PodFlagMap != nil {
			return services.ReplacePodSpecificFlags(tx, ch.ID, mapping)
		}
		return nil
	})
	if err != nil {
		utils.Error(c, 5000, "更新题目失败: "+err.Error())
		return
	}

	utils.Success(c, "Challenge updated successfully", gin.H{"id": ch.ID})
}
