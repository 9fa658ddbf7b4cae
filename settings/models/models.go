package models

import "time"

// ---- Profile ----

type Profile struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	Pronouns    *string `json:"pronouns,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Pronouns    *string `json:"pronouns"`
}

type UploadAvatarResponse struct {
	URL string `json:"url"`
}

// ---- Account Settings ----

type AccountSettings struct {
	Language string `json:"language"`
	Timezone string `json:"timezone"`
	Theme    string `json:"theme"`
}

type UpdateAccountSettingsRequest struct {
	Language *string `json:"language"`
	Timezone *string `json:"timezone"`
	Theme    *string `json:"theme"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ---- Notifications ----

type NotificationSettings struct {
	EmailEnabled      bool   `json:"emailEnabled"`
	SessionReminders  bool   `json:"sessionReminders"`
	JournalPrompts    bool   `json:"journalPrompts"`
	CommunityDigest   bool   `json:"communityDigest"`
	ReminderLeadHours int    `json:"reminderLeadHours"`
	QuietHoursStart   string `json:"quietHoursStart,omitempty"`
	QuietHoursEnd     string `json:"quietHoursEnd,omitempty"`
}

type UpdateNotificationSettingsRequest struct {
	EmailEnabled      *bool   `json:"emailEnabled"`
	SessionReminders  *bool   `json:"sessionReminders"`
	JournalPrompts    *bool   `json:"journalPrompts"`
	CommunityDigest   *bool   `json:"communityDigest"`
	ReminderLeadHours *int    `json:"reminderLeadHours"`
	QuietHoursStart   *string `json:"quietHoursStart"`
	QuietHoursEnd     *string `json:"quietHoursEnd"`
}

// ---- Relationship ----

type RelationshipProfile struct {
	Status        string   `json:"status"`
	Anniversary   *string  `json:"anniversary,omitempty"`
	PartnerLinked bool     `json:"partnerLinked"`
	PartnerName   *string  `json:"partnerName,omitempty"`
	FocusAreas    []string `json:"focusAreas"`
}

type UpdateRelationshipProfileRequest struct {
	Status      *string  `json:"status"`
	Anniversary *string  `json:"anniversary"`
	FocusAreas  []string `json:"focusAreas"`
}

type PartnerInviteRequest struct {
	Email string `json:"email"`
}

// ---- Privacy ----

type PrivacySettings struct {
	JournalVisibleToPartner bool `json:"journalVisibleToPartner"`
	CommunityDisplayName    bool `json:"communityDisplayName"`
	AllowCoachHistory       bool `json:"allowCoachHistory"`
}

type UpdatePrivacySettingsRequest struct {
	JournalVisibleToPartner *bool `json:"journalVisibleToPartner"`
	CommunityDisplayName    *bool `json:"communityDisplayName"`
	AllowCoachHistory       *bool `json:"allowCoachHistory"`
}

type DataExportResponse struct {
	RequestID string    `json:"requestId"`
	ReadyBy   time.Time `json:"readyBy"`
}

// ---- Sessions ----

type Session struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

type LogoutSessionRequest struct {
	SessionID string `json:"sessionId"`
}
