package authv1

type RegisterRequest struct {
	Email     string `cbor:"email"`
	Username  string `cbor:"username"`
	Password  string `cbor:"password"`
	Firstname string `cbor:"firstname"`
	Lastname  string `cbor:"lastname"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	AccessToken  string `cbor:"access_token"`
	RefreshToken string `cbor:"refresh_token"`
	Email        string `cbor:"email"`
	Username     string `cbor:"username"`
	Firstname    string `cbor:"firstname"`
	Lastname     string `cbor:"lastname"`
}

// LoginRequest identifies the account by email or username. RefreshToken is
// the token the client currently holds, if any; it is retired on success.
type LoginRequest struct {
	Identifier   string `cbor:"identifier"`
	Password     string `cbor:"password"`
	RefreshToken string `cbor:"refresh_token,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `cbor:"refresh_token,omitempty"`
}

type LogoutResponse struct{}

type VerifyRequest struct {
	VerificationToken string `cbor:"verification_token"`
}

type VerifyResponse struct{}

// SendVerificationRequest carries no fields; the account is taken from the
// access token in the call metadata.
type SendVerificationRequest struct{}

type SendVerificationResponse struct {
	AlreadyVerified bool `cbor:"already_verified"`
}

type IsValidRequest struct {
	UserID string   `cbor:"user_id"`
	Roles  []string `cbor:"roles"`
}

type IsValidResponse struct {
	IsValid bool `cbor:"is_valid"`
}

type RefreshRequest struct {
	RefreshToken string `cbor:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `cbor:"email"`
}

type ForgotPasswordResponse struct{}

type ChangePasswordRequest struct {
	Token       string `cbor:"token"`
	NewPassword string `cbor:"new_password"`
}

type ChangePasswordResponse struct{}
