package api

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	// Level is "basic" or "full".
	Level string `json:"level"`
	// ExpiresAt is the token expiry in Unix milliseconds.
	ExpiresAt int64 `json:"expiresAt"`
}
