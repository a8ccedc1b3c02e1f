package domain

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName prefers the first name and falls back to the username, the
// same rule the dashboard greeting uses.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}

	if u.FirstName != "" {
		return u.FirstName
	}

	return u.Username
}
