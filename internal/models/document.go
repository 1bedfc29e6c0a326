package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentityDocument — полный документ пользователя в MongoDB.
// Ключ поиска — gov_id; wallet_address заполняется единственный раз
// успешной верификацией.
type IdentityDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GovID         string             `bson:"gov_id" json:"gov_id"`
	FirstName     string             `bson:"first_name" json:"first_name"`
	LastName      string             `bson:"last_name" json:"last_name"`
	Email         string             `bson:"email" json:"email"`
	Photo         string             `bson:"photo" json:"photo"`
	Embedding     []float32          `bson:"embedding" json:"embedding"`
	WalletAddress *string            `bson:"wallet_address" json:"wallet_address"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
