package mongo

import (
	"context"
	"errors"

	"github.com/rtemka/menu/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document объект хранения: одно значение под одним ключом.
type document struct {
	Key   string `bson:"key"`
	Value []byte `bson:"value"`
}

// Mongo хранилище ключ-значение поверх коллекции MongoDB.
type Mongo struct {
	client     *mongo.Client // клиент mongo
	database   string
	collection string
}

// New подключается к БД, используя connstr, и возвращает
// объект для работы с БД
func New(connstr, database, collection string) (*Mongo, error) {

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(connstr))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(context.Background(), nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Mongo{
		client:     client,
		database:   database,
		collection: collection,
	}, nil
}

func (m *Mongo) col() *mongo.Collection {
	return m.client.Database(m.database).Collection(m.collection)
}

// Close закрывает соединение с БД
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

// Load возвращает значение по ключу.
// Возвращает domain.ErrNotFound, если документа нет.
func (m *Mongo) Load(ctx context.Context, key string) ([]byte, error) {

	var doc document

	err := m.col().FindOne(ctx, bson.D{bson.E{Key: "key", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return doc.Value, nil
}

// Save записывает значение по ключу, документ
// создается, если его еще нет.
func (m *Mongo) Save(ctx context.Context, key string, value []byte) error {

	filter := bson.D{bson.E{Key: "key", Value: key}}
	opts := options.Update().SetUpsert(true)
	upd := bson.D{
		bson.E{
			Key: "$set", Value: bson.D{bson.E{Key: "value", Value: value}}},
	}

	_, err := m.col().UpdateOne(ctx, filter, upd, opts)

	return err
}
