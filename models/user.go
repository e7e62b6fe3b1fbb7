package models

import "time"

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

type User struct {
	UserID         string    `json:"userid" bson:"userid"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	Password       string    `json:"-" bson:"password"`
	Role           string    `json:"role" bson:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	FarmName       string    `json:"farmName,omitempty" bson:"farmName,omitempty"`
	Location       string    `json:"location,omitempty" bson:"location,omitempty"`
	Specialization string    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Bio            string    `json:"bio,omitempty" bson:"bio,omitempty"`
	IsVerified     bool      `json:"isVerified" bson:"isVerified"`
	VerifiedAt     time.Time `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	RefreshToken   string    `json:"-" bson:"refreshtoken,omitempty"`
	RefreshExpiry  time.Time `json:"-" bson:"refreshexpiry,omitempty"`
	LastLogin      time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the subset of user fields resolved into orders,
// reviews and conversations for display.
type UserSummary struct {
	UserID         string `json:"userid" bson:"userid"`
	Name           string `json:"name" bson:"name"`
	FarmName       string `json:"farmName,omitempty" bson:"farmName,omitempty"`
	Email          string `json:"email,omitempty" bson:"email,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	Location       string `json:"location,omitempty" bson:"location,omitempty"`
}
