/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wso2/user-profile-service/internal/profile/model"
	"github.com/wso2/user-profile-service/internal/system/constants"
)

// ProfileRepository handles MongoDB operations for profiles.
type ProfileRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

// NewProfileRepository creates a repository over the named collection. Every call is
// bounded by timeout.
func NewProfileRepository(db *mongo.Database, collectionName string, timeout time.Duration) *ProfileRepository {
	if timeout <= 0 {
		timeout = constants.DefaultMongoTimeout
	}
	return &ProfileRepository{
		collection: db.Collection(collectionName),
		timeout:    timeout,
	}
}

// EnsureIndexes creates the unique index on user_id.
func (repo *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	_, err := repo.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: constants.UserIdField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	return errors.Wrap(err, "create user_id index")
}

// Ping checks that the primary answers.
func (repo *ProfileRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	return errors.Wrap(repo.collection.Database().Client().Ping(ctx, readpref.Primary()), "ping mongodb")
}

func (repo *ProfileRepository) Get(ctx context.Context, userId string) (*model.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var profile model.Profile
	err := repo.collection.FindOne(ctx, bson.M{constants.UserIdField: userId}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find profile %s", userId)
	}
	return &profile, nil
}

// Create upserts with $setOnInsert so a concurrent insert for the same user id leaves
// the existing document untouched.
func (repo *ProfileRepository) Create(ctx context.Context, profile model.Profile) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	filter := bson.M{constants.UserIdField: profile.UserId}
	update := bson.M{"$setOnInsert": profile}

	result, err := repo.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "insert profile %s", profile.UserId)
	}
	return result.UpsertedCount == 1, nil
}

func (repo *ProfileRepository) Update(ctx context.Context, userId string, changes map[string]interface{},
	updatedAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	set := bson.M{constants.UpdatedAtField: updatedAt}
	for field, value := range changes {
		set[field] = value
	}

	result, err := repo.collection.UpdateOne(ctx, bson.M{constants.UserIdField: userId}, bson.M{"$set": set})
	if err != nil {
		return false, errors.Wrapf(err, "update profile %s", userId)
	}
	return result.MatchedCount > 0, nil
}

func (repo *ProfileRepository) Delete(ctx context.Context, userId string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	result, err := repo.collection.DeleteOne(ctx, bson.M{constants.UserIdField: userId})
	if err != nil {
		return false, errors.Wrapf(err, "delete profile %s", userId)
	}
	return result.DeletedCount > 0, nil
}

func (repo *ProfileRepository) List(ctx context.Context, skip, limit int) ([]model.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit))
	cursor, err := repo.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list profiles")
	}
	defer cursor.Close(ctx)

	profiles := make([]model.Profile, 0)
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, errors.Wrap(err, "decode profiles")
	}
	return profiles, nil
}
