package payload

type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Username  string `json:"username"  validate:"required,min=4,alphanum"`
	Password  string `json:"password"  validate:"required,min=6"`
	Firstname string `json:"firstname" validate:"required,min=2"`
	Lastname  string `json:"lastname"  validate:"required,min=2"`
}

// LoginRequest accepts an email or a username as identifier. RefreshToken is
// read from the body for mobile clients only.
type LoginRequest struct {
	Identifier   string `json:"identifier"              validate:"required"`
	Password     string `json:"password"                validate:"required"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type VerifyRequest struct {
	VerificationToken string `json:"verification_token" validate:"required,jwt"`
}

// AuthResponse is returned by register and login. RefreshToken is only
// set for mobile clients; web clients receive it as a cookie.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
}

type VerificationLinkResponse struct {
	AlreadyVerified bool `json:"already_verified"`
}
