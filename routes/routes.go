package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})

			// Journal catalogue and published issues
			public.GET("/journals", controllers.ListJournals)
			public.GET("/journals/:id", controllers.GetJournal)
			public.GET("/issues/:issue_id/articles", controllers.ListIssueArticles)

			// Invited reviewers read the invitation before logging in
			public.GET("/invitations/:token", controllers.GetInvitation)

			// Mail provider delivery callbacks
			public.POST("/webhooks/email-delivery", controllers.EmailDeliveryWebhook)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Files (manuscripts and review reports)
			files := protected.Group("/files")
			{
				files.POST("/upload", controllers.UploadFile)
				files.GET("/download/:file_id", controllers.DownloadFile)
				files.DELETE("/:file_id", controllers.DeleteFile)
			}

			// Invitation responses; the service checks the caller matches
			// the invited reviewer, so no role gate here
			protected.POST("/invitations/:token/accept", controllers.AcceptInvitation)
			protected.POST("/invitations/:token/decline", controllers.DeclineInvitation)

			// Author endpoints
			papers := protected.Group("/papers")
			{
				papers.POST("", middleware.RequireRole(models.RoleAuthor), controllers.SubmitPaper)
				papers.GET("", middleware.RequireRole(models.RoleAuthor), controllers.ListMyPapers)
				papers.GET("/:id", middleware.RequireRole(models.RoleAuthor), controllers.GetMyPaper)
				papers.POST("/:id/resubmit", middleware.RequireRole(models.RoleAuthor), controllers.ResubmitPaper)
				papers.GET("/:id/history", controllers.GetPaperHistory)

				papers.POST("/:id/coauthors", middleware.RequireRole(models.RoleAuthor), controllers.AddCoAuthor)
				papers.PUT("/:id/coauthors/:co_author_id", middleware.RequireRole(models.RoleAuthor), controllers.UpdateCoAuthor)
				papers.DELETE("/:id/coauthors/:co_author_id", middleware.RequireRole(models.RoleAuthor), controllers.DeleteCoAuthor)
			}

			// Reviewer endpoints
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequireRole(models.RoleReviewer))
			{
				reviews.GET("/assignments", controllers.ListMyAssignments)
				reviews.GET("/assignments/:id/draft", controllers.GetReviewDraft)
				reviews.PUT("/assignments/:id/draft", controllers.SaveReviewDraft)
				reviews.POST("/assignments/:id/submit", controllers.SubmitReview)
				reviews.POST("/assignments/:id/report", controllers.UploadReviewReport)
			}

			// Editor endpoints
			editor := protected.Group("/editor")
			editor.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				editor.GET("/papers", controllers.ListPapers)
				editor.GET("/papers/:id", controllers.GetPaper)
				editor.POST("/papers/:id/invitations", controllers.InviteReviewer)
				editor.GET("/papers/:id/invitations", controllers.ListInvitations)
				editor.DELETE("/invitations/:invitation_id", controllers.RevokeInvitation)
				editor.POST("/papers/:id/decision", controllers.DecidePaper)
				editor.POST("/papers/:id/start-publication", controllers.StartPublication)
				editor.POST("/papers/:id/publish", controllers.PublishPaper)
				editor.GET("/papers/:id/doi-status", controllers.CheckDOIStatus)
			}

			// Admin endpoints
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/journals", controllers.CreateJournal)
				admin.PUT("/journals/:id", controllers.UpdateJournal)
				admin.POST("/journals/:id/volumes", controllers.CreateVolume)
				admin.POST("/volumes/:volume_id/issues", controllers.CreateIssue)

				admin.GET("/users", controllers.ListUsers)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)

				admin.GET("/email-templates", controllers.ListEmailTemplates)
				admin.POST("/email-templates", controllers.UpsertEmailTemplate)

				admin.GET("/correspondence", controllers.ListCorrespondence)
			}
		}
	}
}
