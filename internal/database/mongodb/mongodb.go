package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edumov/entity"
	"edumov/internal/config"
)

const (
	collectionUsers     = "users"
	collectionCodes     = "teacher_codes"
	collectionRelations = "teacher_students"
	collectionQuestions = "questions"
	collectionComments  = "comments"
	collectionChat      = "chat_messages"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func New(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) open(name string) (*mongo.Client, *mongo.Collection, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, nil, err
	}
	return connection, connection.Database(m.database).Collection(name), nil
}

// storeErr folds driver errors into the service taxonomy.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrDuplicate
	}
	return fmt.Errorf("mongodb: %w", err)
}

// EnsureIndexes creates the unique indexes the pairing invariants rely on.
// Called once at startup.
func (m *MongoDB) EnsureIndexes() error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	db := connection.Database(m.database)
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{collectionUsers, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{collectionUsers, mongo.IndexModel{Keys: bson.D{{Key: "cpf", Value: 1}, {Key: "user_type", Value: 1}}, Options: unique}},
		{collectionCodes, mongo.IndexModel{Keys: bson.D{{Key: "teacher_id", Value: 1}}, Options: unique}},
		{collectionCodes, mongo.IndexModel{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique}},
		{collectionRelations, mongo.IndexModel{Keys: bson.D{{Key: "teacher_id", Value: 1}, {Key: "student_id", Value: 1}}, Options: unique}},
		{collectionComments, mongo.IndexModel{Keys: bson.D{{Key: "question_id", Value: 1}}}},
		{collectionChat, mongo.IndexModel{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(m.ctx, idx.model); err != nil {
			return fmt.Errorf("mongodb index %s: %w", idx.collection, err)
		}
	}
	return nil
}
