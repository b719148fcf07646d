package client

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a prospective buyer. Quotations always reference a client.
type Client struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	RUT            string             `bson:"rut,omitempty" json:"rut,omitempty"` // Chilean tax id
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
