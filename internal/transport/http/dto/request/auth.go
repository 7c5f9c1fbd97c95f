package request

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin contributor attempter"`
	// Password may be absent when the account is created through the
	// external identity provider.
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=64"`
	GoogleID string `json:"google_id,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty"`
	GoogleID string `json:"google_id,omitempty"`
}
