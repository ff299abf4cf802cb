package auth

// SignUpRequest represents the request payload for registering a new user.
type SignUpRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignUpResponse represents the response payload after a successful sign-up.
// The password hash is deliberately not included.
type SignUpResponse struct {
	User  User
	Token string
}

// SignInRequest represents the request payload for logging in.
type SignInRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignInResponse represents the response payload after a successful sign-in.
type SignInResponse struct {
	Message string
	Token   string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Email string
}
