// file: controllers/user_controller.go
package controllers

import (
	"PodCTF/database"
	"PodCTF/models"
	"PodCTF/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// --- 公开接口 ---

func Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Email    string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&user).Error; err == nil {
		utils.Error(c, 2001, "用户名或邮箱已被注册")
		return
	}

	newUser := models.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}

	if err := database.DB.Create(&newUser).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	utils.Success(c, "User registered successfully", gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"role":     newUser.Role,
	})
}

func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Error(c, 2002, "用户不存在或密码错误")
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Error(c, 2002, "用户不存在或密码错误")
		return
	}

	if user.Status == models.StatusBanned {
		utils.Error(c, 2005, "用户已被封禁")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Error(c, 5002, "Token 生成失败")
		return
	}

	utils.Success(c, "Login success", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// --- 需要登录的接口 ---

func GetUserDetail(c *gin.Context) {
	targetUserID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的用户ID")
		return
	}
	userIDAny, _ := c.Get("user_id")
	requestingUserID, _ := userIDAny.(uint32)
	roleAny, _ := c.Get("user_role")
	requestingUserRole, _ := roleAny.(models.UserRole)
	if uint32(targetUserID) != requestingUserID && requestingUserRole == models.RoleUser {
		utils.Error(c, 4003, "权限不足")
		return
	}
	var user models.User
	if err := database.DB.First(&user, targetUserID).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}
	utils.Success(c, "success", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"status":   user.Status,
	})
}

// --- 仅管理员可访问的接口 ---

func GetUserList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	query := c.Query("query")
	var users []models.User
	var total int64
	db := database.DB.Model(&models.User{})
	if query != "" {
		db = db.Where("username LIKE ? OR email LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	db.Count(&total)
	db.Offset((page - 1) * pageSize).Limit(pageSize).Order("id desc").Find(&users)
	var resultUsers []gin.H
	for _, user := range users {
		resultUsers = append(resultUsers, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"status":   user.Status,
		})
	}
	utils.Success(c, "success", gin.H{
		"total": total,
		"users": resultUsers,
	})
}

func DeleteUser(c *gin.Context) {
	targetUserID, _ := strconv.Atoi(c.Param("id"))
	var user models.User
	if err := database.DB.First(&user, targetUserID).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}
	if user.Role == models.RoleRootAdmin {
		utils.Error(c, 2011, "Root admin cannot be deleted")
		return
	}
	database.DB.Delete(&user)
	utils.Success(c, "User deleted successfully", nil)
}

func UpdateUserStatus(c *gin.Context) {
	targetUserID, _ := strconv.Atoi(c.Param("id"))
	var req struct {
		Status models.UserStatus `json:"status" binding:"required,oneof=active banned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "无效的状态")
		return
	}
	var user models.User
	if err := database.DB.First(&user, targetUserID).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}
	if user.Role == models.RoleRootAdmin {
		utils.Error(c, 2010, "Root admin cannot be modified")
		return
	}
	database.DB.Model(&user).Update("status", req.Status)
	utils.Success(c, "User status updated", gin.H{
		"user_id": user.ID,
		"status":  req.Status,
	})
}

// --- 仅 Root Admin 可访问的接口 ---

func UpdateUserRole(c *gin.Context) {
	targetUserID, _ := strconv.Atoi(c.Param("id"))
	var req struct {
		Role models.UserRole `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "无效的角色")
		return
	}
	var user models.User
	if err := database.DB.First(&user, targetUserID).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}
	if user.Role == models.RoleRootAdmin {
		utils.Error(c, 2010, "Root admin cannot be modified")
		return
	}
	database.DB.Model(&user).Update("role", req.Role)
	utils.Success(c, "Role updated successfully", gin.H{
		"user_id": user.ID,
		"role":    req.Role,
	})
}
