package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ignatzorin/kyc-backend/internal/db"
	"github.com/ignatzorin/kyc-backend/internal/models"
)

var ErrDocumentNotFound = errors.New("identity document not found")

// DocumentRepository отвечает за документы пользователей в MongoDB.
// Документ создаётся один раз при регистрации; из мутаций доступна только
// установка wallet_address успешной верификацией.
type DocumentRepository struct {
	collection *mongo.Collection
}

// NewDocumentRepository создаёт экземпляр репозитория.
func NewDocumentRepository(store *db.Mongo) *DocumentRepository {
	return &DocumentRepository{collection: store.Collection("documents")}
}

// Create сохраняет новый документ и возвращает его hex-идентификатор.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.IdentityDocument) (string, error) {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.WalletAddress = nil

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("document repository: create %w", err)
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("document repository: неожиданный тип inserted id %T", result.InsertedID)
	}
	doc.ID = objectID

	return objectID.Hex(), nil
}

// GetByGovID возвращает документ по государственному идентификатору.
func (r *DocumentRepository) GetByGovID(ctx context.Context, govID string) (*models.IdentityDocument, error) {
	return r.findOne(ctx, bson.M{"gov_id": govID})
}

// GetByID возвращает документ по hex-идентификатору MongoDB.
func (r *DocumentRepository) GetByID(ctx context.Context, hexID string) (*models.IdentityDocument, error) {
	objectID, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

// SetWalletAddress записывает адрес кошелька в документ пользователя.
// Возвращает true, если документ действительно был изменён.
func (r *DocumentRepository) SetWalletAddress(ctx context.Context, govID, address string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"gov_id": govID},
		bson.M{"$set": bson.M{
			"wallet_address": address,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("document repository: set wallet address %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *DocumentRepository) findOne(ctx context.Context, filter bson.M) (*models.IdentityDocument, error) {
	var doc models.IdentityDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("document repository: find %w", err)
	}
	return &doc, nil
}
