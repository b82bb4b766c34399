package domain

// UserNames is the set of names known for a user, as returned by the chat
// platform's user directory and cached in the store.
type UserNames struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RealName  string `json:"real_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Display picks the name to show: the real name when requested, otherwise
// the first name, falling back to the plain username either way.
func (n *UserNames) Display(useRealName bool) string {
	if useRealName {
		if n.RealName != "" {
			return n.RealName
		}
		return n.Name
	}
	if n.FirstName != "" {
		return n.FirstName
	}
	return n.Name
}
