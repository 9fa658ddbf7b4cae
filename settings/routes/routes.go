package routes

import (
	"github.com/gin-gonic/gin"

	c "github.com/attune-labs/attune/settings/controllers"
)

func RegisterSettingsRoutes(r *gin.Engine) {
	// Profile
	r.GET("/profile", c.GetProfile)
	r.PUT("/profile", c.UpdateProfile)
	r.POST("/profile/avatar", c.UploadAvatar)

	// Account
	r.GET("/account/settings", c.GetAccountSettings)
	r.PUT("/account/settings", c.UpdateAccountSettings)
	r.POST("/account/password", c.ChangePassword)

	// Notifications
	r.GET("/notifications/settings", c.GetNotificationSettings)
	r.PUT("/notifications/settings", c.UpdateNotificationSettings)

	// Relationship
	r.GET("/relationship", c.GetRelationshipProfile)
	r.PUT("/relationship", c.UpdateRelationshipProfile)
	r.POST("/relationship/partner-invite", c.InvitePartner)
	r.DELETE("/relationship/partner", c.UnlinkPartner)

	// Privacy
	r.GET("/privacy", c.GetPrivacySettings)
	r.PUT("/privacy", c.UpdatePrivacySettings)
	r.POST("/privacy/export", c.RequestDataExport)
	r.POST("/privacy/delete-account", c.RequestAccountDeletion)

	// Sessions
	r.GET("/sessions", c.ListSessions)
	r.POST("/sessions/logout", c.LogoutSession)
}
