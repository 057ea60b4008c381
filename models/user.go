package models

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminSession describes an issued admin token.
type AdminSession struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // unix seconds
}
