package domain

import "time"

type User struct {
	ID               string
	FullName         string
	Email            string
	PasswordHash     string
	Bio              string
	ProfilePicture   string
	NativeLanguage   string
	LearningLanguage string
	Location         string
	IsOnboarded      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicProfile is the projection of a user that other users may see.
// Email and password material never leave the account endpoints.
type PublicProfile struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	ProfilePicture   string `json:"profile_picture"`
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	Location         string `json:"location"`
	Bio              string `json:"bio"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePicture:   u.ProfilePicture,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
		Bio:              u.Bio,
	}
}
