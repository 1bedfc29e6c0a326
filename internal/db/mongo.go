package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo — явно сконструированное подключение к MongoDB.
// Открывается один раз при старте процесса и закрывается при завершении;
// никаких глобальных клиентов.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongo подключается к MongoDB и проверяет соединение ping-ом.
// Недоступность хранилища на старте — фатальная ошибка конфигурации.
func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: не удалось подключиться: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping не прошёл: %w", err)
	}

	return &Mongo{
		client:   client,
		database: client.Database(dbName),
	}, nil
}

// Collection возвращает коллекцию по имени.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// Ping проверяет доступность MongoDB (для health check).
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close закрывает соединение с MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
