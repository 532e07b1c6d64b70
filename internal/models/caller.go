package models

// Caller is the identity attached to an API request by the bearer-token
// middleware. It is nil when authentication is disabled.
type Caller struct {
	Sub   string `json:"sub"` // OIDC subject identifier
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName returns the best available human-readable name.
func (c *Caller) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Sub
}
