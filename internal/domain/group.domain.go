package domain

import "time"

const (
	GroupNameMaxLen        = 100
	GroupDescriptionMaxLen = 500
)

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Members in join order; admins are the members with IsAdmin set.
	Members []GroupMember `json:"members"`
}

type GroupMember struct {
	UserID   string        `json:"user_id"`
	IsAdmin  bool          `json:"is_admin"`
	JoinedAt time.Time     `json:"joined_at"`
	Profile  PublicProfile `json:"profile"`
}

func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (g *Group) IsAdmin(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.IsAdmin
		}
	}
	return false
}

func (g *Group) AdminIDs() []string {
	var ids []string
	for _, m := range g.Members {
		if m.IsAdmin {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}
