package models

// ProfileSummary is the slice of a user profile used to decorate
// conversation and message responses. The profiles table is owned by the
// wider platform; the messaging core only reads it.
type ProfileSummary struct {
	ID                string  `json:"id"`
	FullName          string  `json:"full_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	UniversityName    *string `json:"university_name,omitempty"`
}
