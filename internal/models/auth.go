package models

// LoginRequest is the body accepted by POST /auth/login.
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"rol"`
}
