package model

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Phone    string `json:"phone" validate:"max=32"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateBillRequest has no owner field on purpose; the owner always comes
// from the authenticated principal.
type CreateBillRequest struct {
	Name     string   `json:"name" validate:"max=200"`
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	DueDate  *Date    `json:"dueDate" validate:"required"`
	Category string   `json:"category" validate:"max=100"`
	Paid     bool     `json:"paid"`
	Notes    string   `json:"notes" validate:"max=2000"`
}

type UpdateBillRequest struct {
	Name     *string  `json:"name" validate:"omitempty,max=200"`
	Amount   *float64 `json:"amount" validate:"omitempty,gte=0"`
	DueDate  *Date    `json:"dueDate"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Paid     *bool    `json:"paid"`
	Notes    *string  `json:"notes" validate:"omitempty,max=2000"`
}
