// file: routes/router.go
package routes

import (
	"PodCTF/controllers"
	"PodCTF/middlewares"
	"PodCTF/models"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		// --- 用户 ---
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", controllers.Register)
			usersPublic.POST("/login", controllers.Login)
		}
		usersAuth := apiV1.Group("/users")
		usersAuth.Use(middlewares.JWTAuthMiddleware())
		{
			usersAuth.GET("/:id", controllers.GetUserDetail)
		}
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/users", controllers.GetUserList)
			adminRoutes.DELETE("/users/:id", controllers.DeleteUser)
			adminRoutes.PUT("/users/:id/status", controllers.UpdateUserStatus)
			adminRoutes.PUT("/users/:id/role", middlewares.RoleAuthMiddleware(models.RoleRootAdmin), controllers.UpdateUserRole)
		}

		// --- 队伍 ---
		teamRoutes := apiV1.Group("/teams")
		teamRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			teamRoutes.POST("", controllers.CreateTeam)
			teamRoutes.POST("/join", controllers.JoinTeam)
			teamRoutes.POST("/leave", controllers.LeaveTeam)
			teamRoutes.DELETE("/:id", controllers.DisbandTeam)
			teamRoutes.DELETE("/:id/members/:user_id", controllers.KickMember)
			teamRoutes.PUT("/:id", controllers.UpdateTeam)
			teamRoutes.GET("/:id/solves", controllers.GetTeamSolves)
		}
		adminTeamRoutes := apiV1.Group("/admin/teams")
		adminTeamRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminTeamRoutes.GET("", controllers.AdminGetTeams)
			adminTeamRoutes.PUT("/:id/status", controllers.AdminUpdateTeamStatus)
			adminTeamRoutes.DELETE("/:id", controllers.AdminDeleteTeam)
		}

		// --- Pod 管理 ---
		podRoutes := apiV1.Group("/pods")
		podRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			podRoutes.GET("/mine", controllers.GetMyPod)
		}
		adminPodRoutes := apiV1.Group("/admin/pods")
		adminPodRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminPodRoutes.GET("", controllers.AdminListPods)
			adminPodRoutes.POST("", controllers.AdminCreatePod)
			adminPodRoutes.GET("/flagmap", controllers.AdminGeneratePodFlagMap)
			adminPodRoutes.PUT("/:id/assign", controllers.AdminAssignPod)
			adminPodRoutes.DELETE("/:id", controllers.AdminDestroyPod)
		}

		// --- 题目 ---
		challengeRoutes := apiV1.Group("/challenges")
		{
			// 用户接口；详情用 TryAuth：游客可看，但 Pod 占位符不替换
			challengeRoutes.GET("", middlewares.JWTAuthMiddleware(), controllers.ListChallenges)
			challengeRoutes.GET("/:id", middlewares.JWTTryAuthMiddleware(), controllers.GetChallengeDetail)
			challengeRoutes.POST("/:id/submit", middlewares.JWTAuthMiddleware(), controllers.SubmitFlag)

			// 管理员接口
			challengeRoutes.POST("", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.CreateChallenge)
			challengeRoutes.PUT("/:id", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.AdminUpdateChallenge)
		}
		adminChallengeRoutes := apiV1.Group("/admin/challenges")
		adminChallengeRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminChallengeRoutes.GET("", controllers.AdminListChallenges)
			adminChallengeRoutes.GET("/:id", controllers.AdminGetChallengeDetail)
		}

		// --- 提交日志 ---
		adminLogRoutes := apiV1.Group("/admin/logs")
		adminLogRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminLogRoutes.GET("/flags", controllers.GetFlagLogs)
			adminLogRoutes.PUT("/flags/:id/suspect", controllers.MarkSuspectSubmission)
			adminLogRoutes.GET("/flags/compare", controllers.CompareFlagSubmissions)
		}

		// --- 排行榜 ---
		apiV1.GET("/scoreboard", controllers.GetScoreboard)
	}

	return r
}
