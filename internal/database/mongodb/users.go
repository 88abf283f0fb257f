package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"edumov/entity"
)

func (m *MongoDB) CreateUser(user *entity.User) error {
	connection, collection, err := m.open(collectionUsers)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	_, err = collection.InsertOne(m.ctx, user)
	return storeErr(err)
}

func (m *MongoDB) GetUser(id string) (*entity.User, error) {
	connection, collection, err := m.open(collectionUsers)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var user entity.User
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (m *MongoDB) GetUserByEmail(email string) (*entity.User, error) {
	connection, collection, err := m.open(collectionUsers)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var user entity.User
	err = collection.FindOne(m.ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (m *MongoDB) FindUserByCPF(cpf string, userType entity.UserType) (*entity.User, error) {
	connection, collection, err := m.open(collectionUsers)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "cpf", Value: cpf}, {Key: "user_type", Value: userType}}
	var user entity.User
	err = collection.FindOne(m.ctx, filter).Decode(&user)
	if err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (m *MongoDB) FindUserByIdentity(cpf, birthDate string) (*entity.User, error) {
	connection, collection, err := m.open(collectionUsers)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "cpf", Value: cpf}, {Key: "birth_date", Value: birthDate}}
	var user entity.User
	err = collection.FindOne(m.ctx, filter).Decode(&user)
	if err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (m *MongoDB) UpdatePassword(id, passwordHash string) error {
	connection, collection, err := m.open(collectionUsers)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: passwordHash}}}}
	result, err := collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return storeErr(err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}
