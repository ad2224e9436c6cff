package dto

type CreateUserDTO struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	NewPassword    string `json:"newPassword" binding:"required"`
	VerifyPassword string `json:"verifyPassword" binding:"required"`
}

type UpdateUserDTO struct {
	Name          string       `json:"name"`
	Phone         string       `json:"phone"`
	Email         string       `json:"email" binding:"omitempty,email"`
	Password      string       `json:"password"`
	TermsAccepted *string      `json:"termsAccepted"`
	Location      *GeoPointDTO `json:"location"`
}

type ResetPasswordDTO struct {
	Password       string `json:"password" binding:"required"`
	NewPassword    string `json:"newPassword" binding:"required"`
	VerifyPassword string `json:"verifyPassword" binding:"required"`
}
