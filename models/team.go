package models

type Team struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

type TeamsResponse struct {
	Teams []Team `json:"teams"`
}

type TeamCreate struct {
	Name string `json:"name"`
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type TeamMemberAdd struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
