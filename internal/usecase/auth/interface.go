package auth

import "context"

// Usecase defines the interface for the authentication flow.
type Usecase interface {
	SignUp(ctx context.Context, in SignUpRequest) (*SignUpResponse, error)
	SignIn(ctx context.Context, in SignInRequest) (*SignInResponse, error)
}
