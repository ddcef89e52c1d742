package model

// Request payloads accepted at the API boundary. Time bounds stay strings
// here: parsing and the start < end check belong to TimeRange construction.

type DeskCreate struct {
	LocationID string `json:"location_id" validate:"required,min=1,max=100"`
}

type DeskUpdate struct {
	LocationID string `json:"location_id" validate:"required,min=1,max=100"`
}

type BookingRequest struct {
	Start     string   `json:"start" validate:"required"`
	End       string   `json:"end" validate:"required"`
	Attendees []string `json:"attendees" validate:"omitempty,max=50,dive,required"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

type UserUpdate struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

type RoleUpdate struct {
	Role Role `json:"role" validate:"required,oneof=user manager admin"`
}

type ImageUpdate struct {
	Image string `json:"image" validate:"required,max=300"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
