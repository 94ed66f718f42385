package entities

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemberRole defines a user's role inside a workspace
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// IsValid checks if the role is valid
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManage reports whether the role may change integrations and billing
func (r MemberRole) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Subscription statuses mirrored from the billing providers
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Workspace is the tenant boundary for billing, integrations and meeting data
type Workspace struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug    string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Plan    PlanType  `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`

	StripeCustomerID         *string `json:"-" gorm:"type:varchar(255);index"`
	StripeSubscriptionID     *string `json:"-" gorm:"type:varchar(255)"`
	PaystackCustomerCode     *string `json:"-" gorm:"type:varchar(255);index"`
	PaystackSubscriptionCode *string `json:"-" gorm:"type:varchar(255)"`
	SubscriptionStatus       *string `json:"subscription_status,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (Workspace) TableName() string {
	return "workspaces"
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// NewWorkspace creates a free-plan workspace owned by ownerID
func NewWorkspace(name string, ownerID uuid.UUID) *Workspace {
	id := uuid.New()
	now := time.Now()
	return &Workspace{
		ID:        id,
		Name:      name,
		Slug:      Slugify(name) + "-" + id.String()[:8],
		OwnerID:   ownerID,
		Plan:      PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Slugify lowercases s and collapses non-alphanumerics to dashes
func Slugify(s string) string {
	slug := strings.Trim(slugCleaner.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "workspace"
	}
	return slug
}

// WorkspaceMember links a user to a workspace with a role
type WorkspaceMember struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID uuid.UUID  `json:"workspace_id" gorm:"type:uuid;not null;uniqueIndex:idx_members_workspace_user,priority:1"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_members_workspace_user,priority:2;index"`
	Role        MemberRole `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name
func (WorkspaceMember) TableName() string {
	return "workspace_members"
}

// NewWorkspaceMember creates a membership row
func NewWorkspaceMember(workspaceID, userID uuid.UUID, role MemberRole) *WorkspaceMember {
	return &WorkspaceMember{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now(),
	}
}
