package models

// LoginRequest defines the structure for staff login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for staff registration requests
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	MerchantID string `json:"merchantId" binding:"required"`
	Role       string `json:"role"`
}
