package domaintest

import (
	"github.com/Amund211/profilelookup/internal/domain"
)

type profileBuilder struct {
	profile domain.Profile
}

// NewProfileBuilder starts from a complete profile with the given id
func NewProfileBuilder(id string) *profileBuilder {
	return &profileBuilder{
		profile: domain.Profile{
			ID:        id,
			Username:  "exampleUser123",
			AvatarURL: "https://example.com/avatar.jpg",
		},
	}
}

func (pb *profileBuilder) WithUsername(username string) *profileBuilder {
	pb.profile.Username = username
	return pb
}

func (pb *profileBuilder) WithAvatarURL(avatarURL string) *profileBuilder {
	pb.profile.AvatarURL = avatarURL
	return pb
}

func (pb *profileBuilder) Build() domain.Profile {
	return pb.profile
}
