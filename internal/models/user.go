package models

// User mirrors the remote /users/me payload. MoveDate is an ISO calendar
// date (YYYY-MM-DD).
type User struct {
	UserID            string  `json:"user_id"`
	Username          string  `json:"username"`
	FullName          string  `json:"full_name"`
	PhoneNumber       *string `json:"phone_number"`
	CurrentPostalCode string  `json:"current_postal_code"`
	MoveDate          string  `json:"move_date"`
}

type UpdateUserRequest struct {
	FullName          *string `json:"full_name,omitempty" binding:"omitempty,min=1,max=50"`
	PhoneNumber       *string `json:"phone_number,omitempty" binding:"omitempty,phonejp"`
	MoveDate          *string `json:"move_date,omitempty" binding:"omitempty,isodate,notpast"`
	CurrentPostalCode *string `json:"current_postal_code,omitempty" binding:"omitempty,postalcode"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// Token is the bearer credential returned by the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Username          string `json:"username" binding:"required,min=3,max=50,userid"`
	Password          string `json:"password" binding:"required,min=1"`
	FullName          string `json:"full_name" binding:"required,min=1,max=50"`
	MoveDate          string `json:"move_date" binding:"required,isodate,notpast"`
	CurrentPostalCode string `json:"current_postal_code" binding:"required,postalcode"`
}

type RegisterResponse struct {
	UserID            string `json:"user_id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	MoveDate          string `json:"move_date"`
	CurrentPostalCode string `json:"current_postal_code"`
}
