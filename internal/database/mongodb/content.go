package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edumov/entity"
)

func (m *MongoDB) CreateQuestion(q *entity.Question) error {
	connection, collection, err := m.open(collectionQuestions)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	_, err = collection.InsertOne(m.ctx, q)
	return storeErr(err)
}

func (m *MongoDB) GetQuestion(id string) (*entity.Question, error) {
	connection, collection, err := m.open(collectionQuestions)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var q entity.Question
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&q)
	if err != nil {
		return nil, storeErr(err)
	}
	return &q, nil
}

func (m *MongoDB) Questions(visibility entity.Visibility) ([]entity.Question, error) {
	connection, collection, err := m.open(collectionQuestions)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{}
	if visibility != "" {
		filter = bson.D{{Key: "visibility", Value: visibility}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(m.ctx)

	var questions []entity.Question
	if err = cursor.All(m.ctx, &questions); err != nil {
		return nil, storeErr(err)
	}
	return questions, nil
}

func (m *MongoDB) UpdateQuestionVisibility(id string, visibility entity.Visibility) error {
	connection, collection, err := m.open(collectionQuestions)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "visibility", Value: visibility}}}}
	result, err := collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return storeErr(err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (m *MongoDB) DeleteQuestion(id string) error {
	connection, collection, err := m.open(collectionQuestions)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	result, err := collection.DeleteOne(m.ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return storeErr(err)
	}
	if result.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (m *MongoDB) CreateComment(comment *entity.Comment) error {
	connection, collection, err := m.open(collectionComments)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	_, err = collection.InsertOne(m.ctx, comment)
	return storeErr(err)
}

func (m *MongoDB) GetComment(id string) (*entity.Comment, error) {
	connection, collection, err := m.open(collectionComments)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var comment entity.Comment
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&comment)
	if err != nil {
		return nil, storeErr(err)
	}
	return &comment, nil
}

func (m *MongoDB) CommentsByQuestion(questionId string) ([]entity.Comment, error) {
	connection, collection, err := m.open(collectionComments)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := collection.Find(m.ctx, bson.D{{Key: "question_id", Value: questionId}}, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(m.ctx)

	var comments []entity.Comment
	if err = cursor.All(m.ctx, &comments); err != nil {
		return nil, storeErr(err)
	}
	return comments, nil
}

func (m *MongoDB) CreateMessage(msg *entity.ChatMessage) error {
	connection, collection, err := m.open(collectionChat)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	_, err = collection.InsertOne(m.ctx, msg)
	return storeErr(err)
}

func (m *MongoDB) Conversation(userA, userB string, limit int) ([]entity.ChatMessage, error) {
	connection, collection, err := m.open(collectionChat)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender_id", Value: userA}, {Key: "receiver_id", Value: userB}},
		bson.D{{Key: "sender_id", Value: userB}, {Key: "receiver_id", Value: userA}},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(int64(limit))
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(m.ctx)

	var messages []entity.ChatMessage
	if err = cursor.All(m.ctx, &messages); err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}
