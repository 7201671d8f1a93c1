package domain

// Profile is the normalized identity returned for every source
type Profile struct {
	ID        string
	Username  string
	AvatarURL string
}

// Complete reports whether every field of the profile is populated
func (p Profile) Complete() bool {
	return p.ID != "" && p.Username != "" && p.AvatarURL != ""
}
