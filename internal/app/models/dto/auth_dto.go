package dto

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=80"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a signed bearer token plus the user record
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

// ForgotPasswordRequest asks for a password reset email
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest redeems a reset token for a new password
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
