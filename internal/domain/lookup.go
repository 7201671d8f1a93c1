package domain

// ProfileRequest is a single inbound lookup, constructed per call
type ProfileRequest struct {
	Source   Source
	Params   map[string]string
	CallerIP string
}

// Lookup holds the parameters of a ProfileRequest after a source strategy has
// validated them. Only strategies create non-zero lookups.
type Lookup struct {
	Source   Source
	ID       string
	Username string
	CallerIP string
}

// Identifier is the single value identifying the profile within its source
func (l Lookup) Identifier() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Username
}
