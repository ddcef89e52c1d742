package model

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Username  string    `json:"username" bson:"username" validate:"required,min=3,max=30"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Password  string    `json:"-" bson:"password" validate:"required,min=6"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Role      Role      `json:"role" bson:"role" validate:"omitempty,oneof=user manager admin"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// UserRef is the trimmed view of a user attached to booking payloads: just
// enough to render who holds a reservation.
type UserRef struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// BookingDetails is the booking read model: the booking itself plus its
// attendee ids resolved against the user store.
type BookingDetails struct {
	Booking   Booking   `json:"booking"`
	Attendees []UserRef `json:"attendees"`
}
