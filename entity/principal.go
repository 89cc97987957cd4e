package entity

// Principal is the authenticated caller, resolved once per request from a bearer token.
type Principal struct {
	ID     string         `json:"id"`
	Email  string         `json:"email,omitempty"`
	Role   string         `json:"role,omitempty"`
	Claims map[string]any `json:"-"`
}
