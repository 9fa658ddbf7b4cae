package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	m "github.com/attune-labs/attune/settings/models"
	u "github.com/attune-labs/attune/settings/utils"
)

// Profile
func GetProfile(c *gin.Context) {
	profile := m.Profile{ID: 1, Email: "demo@example.com"}
	u.JSON(c, http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	var req m.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func UploadAvatar(c *gin.Context) {
	u.JSON(c, http.StatusCreated, m.UploadAvatarResponse{URL: "https://example.com/avatar.png"})
}

// Account
func GetAccountSettings(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.AccountSettings{Language: "en", Timezone: "UTC", Theme: "system"})
}

func UpdateAccountSettings(c *gin.Context) {
	var req m.UpdateAccountSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func ChangePassword(c *gin.Context) {
	var req m.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "changed"})
}

// Notifications
func GetNotificationSettings(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.NotificationSettings{
		EmailEnabled:      true,
		SessionReminders:  true,
		JournalPrompts:    true,
		CommunityDigest:   false,
		ReminderLeadHours: 24,
	})
}

func UpdateNotificationSettings(c *gin.Context) {
	var req m.UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

// Relationship
func GetRelationshipProfile(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.RelationshipProfile{
		Status:        "partnered",
		PartnerLinked: false,
		FocusAreas:    []string{"communication", "conflict"},
	})
}

func UpdateRelationshipProfile(c *gin.Context) {
	var req m.UpdateRelationshipProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func InvitePartner(c *gin.Context) {
	var req m.PartnerInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		u.Error(c, http.StatusBadRequest, "invalid invite")
		return
	}
	u.JSON(c, http.StatusCreated, gin.H{"status": "invited", "email": req.Email})
}

func UnlinkPartner(c *gin.Context) {
	u.JSON(c, http.StatusNoContent, nil)
}

// Privacy
func GetPrivacySettings(c *gin.Context) {
	u.JSON(c, http.StatusOK, m.PrivacySettings{
		JournalVisibleToPartner: false,
		CommunityDisplayName:    true,
		AllowCoachHistory:       true,
	})
}

func UpdatePrivacySettings(c *gin.Context) {
	var req m.UpdatePrivacySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		u.Error(c, http.StatusBadRequest, "invalid body")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "updated"})
}

func RequestDataExport(c *gin.Context) {
	u.JSON(c, http.StatusAccepted, m.DataExportResponse{
		RequestID: uuid.NewString(),
		ReadyBy:   time.Now().Add(48 * time.Hour),
	})
}

func RequestAccountDeletion(c *gin.Context) {
	u.JSON(c, http.StatusAccepted, gin.H{"status": "scheduled", "gracePeriodDays": 30})
}

// Sessions
func ListSessions(c *gin.Context) {
	now := time.Now()
	u.JSON(c, http.StatusOK, []m.Session{
		{ID: "sess_1", UserAgent: "Mozilla/5.0", CreatedAt: now.Add(-2 * time.Hour)},
	})
}

func LogoutSession(c *gin.Context) {
	var req m.LogoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		u.Error(c, http.StatusBadRequest, "invalid session")
		return
	}
	u.JSON(c, http.StatusOK, gin.H{"status": "logged_out"})
}
