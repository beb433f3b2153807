package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ RecordStore = &MongoRecordStore{}

// MongoRecordStore persists documents in MongoDB collections. The
// ObjectID hex of a document is its opaque record id.
type MongoRecordStore struct {
	db *mongo.Database
}

func NewMongoRecordStore(db *mongo.Database) *MongoRecordStore {
	return &MongoRecordStore{db: db}
}

func (s *MongoRecordStore) Create(ctx context.Context, collection string, fields Fields) (*Record, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return nil, fmt.Errorf("%w: insert into %s: %v", ErrUnavailable, collection, err)
	}

	objID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%w: insert into %s: unexpected id type %T", ErrUnavailable, collection, res.InsertedID)
	}

	return &Record{ID: objID.Hex(), Fields: fields}, nil
}

func (s *MongoRecordStore) List(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	order := 1
	if opts.Direction == Descending {
		order = -1
	}
	findOpts := options.Find().SetSort(bson.D{{Key: string(opts.SortField), Value: order}})

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: find in %s: %v", ErrUnavailable, collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode documents from %s: %v", ErrUnavailable, collection, err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, recordFromDoc(doc))
	}
	return records, nil
}

func (s *MongoRecordStore) Update(ctx context.Context, collection, id string, fields Fields) (*Record, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: no document with id %s in %s", ErrNotFound, id, collection)
	}

	filter := bson.M{"_id": objID}
	coll := s.db.Collection(collection)

	var doc bson.M
	if len(fields) == 0 {
		// Nothing to merge, echo the current document.
		err = coll.FindOne(ctx, filter).Decode(&doc)
	} else {
		updateOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M(fields)}, updateOpts).Decode(&doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: no document with id %s in %s", ErrNotFound, id, collection)
		}
		return nil, fmt.Errorf("%w: update %s in %s: %v", ErrUnavailable, id, collection, err)
	}

	record := recordFromDoc(doc)
	return &record, nil
}

func (s *MongoRecordStore) Delete(ctx context.Context, collection, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: no document with id %s in %s", ErrNotFound, id, collection)
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("%w: delete %s from %s: %v", ErrUnavailable, id, collection, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: no document with id %s in %s", ErrNotFound, id, collection)
	}
	return nil
}

func recordFromDoc(doc bson.M) Record {
	fields := make(Fields, len(doc))
	var id string
	for key, val := range doc {
		if key == "_id" {
			if objID, ok := val.(primitive.ObjectID); ok {
				id = objID.Hex()
			}
			continue
		}
		fields[key] = val
	}
	return Record{ID: id, Fields: fields}
}
