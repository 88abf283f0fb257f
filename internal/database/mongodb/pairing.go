package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edumov/entity"
)

// UpsertCode replaces the teacher's single code document. The unique index
// on the code field turns a cross-teacher collision into ErrDuplicate so
// the caller can regenerate.
func (m *MongoDB) UpsertCode(code *entity.TeacherCode) error {
	connection, collection, err := m.open(collectionCodes)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "teacher_id", Value: code.TeacherId}}
	update := bson.D{{Key: "$set", Value: code}}
	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	return storeErr(err)
}

func (m *MongoDB) ActiveCode(teacherId string, now time.Time) (*entity.TeacherCode, error) {
	connection, collection, err := m.open(collectionCodes)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{
		{Key: "teacher_id", Value: teacherId},
		{Key: "used_by", Value: nil},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: now}}},
	}
	var tc entity.TeacherCode
	err = collection.FindOne(m.ctx, filter).Decode(&tc)
	if err != nil {
		return nil, storeErr(err)
	}
	return &tc, nil
}

// RedeemCode is a single conditional update: the validity predicate sits
// in the filter of a FindOneAndUpdate, so two racing redeemers can never
// both match the unredeemed document.
func (m *MongoDB) RedeemCode(code, studentId string, now time.Time) (*entity.TeacherCode, error) {
	connection, collection, err := m.open(collectionCodes)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{
		{Key: "code", Value: code},
		{Key: "used_by", Value: nil},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: now}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "used_by", Value: studentId},
		{Key: "used_at", Value: now},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tc entity.TeacherCode
	err = collection.FindOneAndUpdate(m.ctx, filter, update, opts).Decode(&tc)
	if err != nil {
		return nil, storeErr(err)
	}
	return &tc, nil
}

func (m *MongoDB) CreateRelation(rel *entity.Relation) error {
	connection, collection, err := m.open(collectionRelations)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	_, err = collection.InsertOne(m.ctx, rel)
	return storeErr(err)
}

func (m *MongoDB) GetRelation(id string) (*entity.Relation, error) {
	connection, collection, err := m.open(collectionRelations)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var rel entity.Relation
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rel)
	if err != nil {
		return nil, storeErr(err)
	}
	return &rel, nil
}

func (m *MongoDB) RelationsByTeacher(teacherId string) ([]entity.Relation, error) {
	return m.relations(bson.D{{Key: "teacher_id", Value: teacherId}})
}

func (m *MongoDB) RelationsByStudent(studentId string) ([]entity.Relation, error) {
	return m.relations(bson.D{{Key: "student_id", Value: studentId}})
}

func (m *MongoDB) relations(filter bson.D) ([]entity.Relation, error) {
	connection, collection, err := m.open(collectionRelations)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}})
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(m.ctx)

	var rels []entity.Relation
	if err = cursor.All(m.ctx, &rels); err != nil {
		return nil, storeErr(err)
	}
	return rels, nil
}

func (m *MongoDB) DeleteRelation(id string) error {
	connection, collection, err := m.open(collectionRelations)
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
