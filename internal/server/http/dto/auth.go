package dto

// AuthRequest describes the login/password payload. Role is only honoured on
// registration and defaults to customer.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}
