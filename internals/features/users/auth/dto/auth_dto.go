package dto

type RegisterRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"required,min=7,max=20"`
	Password     string   `json:"password" validate:"required,min=8"`
	UserType     string   `json:"user_type" validate:"omitempty,oneof=organizer participant both"`
	Skills       []string `json:"skills"`
	Bio          *string  `json:"bio"`
	Location     *string  `json:"location"`
	ProfileImage *string  `json:"profile_image"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
