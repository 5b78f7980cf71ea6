// Package mongo implements the storage interfaces on top of a MongoDB
// document database using plain find/findOne/updateOne/countDocuments/
// aggregate operations; no transactions, no joins.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

const (
	usersCollection    = "users"
	settingsCollection = "system_settings"
	contentCollection  = "content_sections"

	// settingsDocID pins the settings singleton document
	settingsDocID = "system"
)

// Store is the MongoDB-backed storage collaborator
type Store struct {
	client   *driver.Client
	db       *driver.Database
	metrics  *observability.Metrics
	settings *driver.Collection
	users    *driver.Collection
	content  *driver.Collection
}

// Connect opens a client and pings the deployment within the configured
// timeout.
func Connect(ctx context.Context, cfg storage.Config, metrics *observability.Metrics) (*Store, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := driver.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Store{
		client:   client,
		db:       db,
		metrics:  metrics,
		users:    db.Collection(usersCollection),
		settings: db.Collection(settingsCollection),
		content:  db.Collection(contentCollection),
	}, nil
}

func (s *Store) observe(op, coll string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveStorageOperation(op, coll, time.Since(start), err)
	}
}

func userFilterQuery(f storage.UserFilter) bson.M {
	query := bson.M{}
	if f.Search != "" {
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": f.Search, "$options": "i"}},
			{"email": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	if f.Role != "" {
		query["role"] = string(f.Role)
	}
	switch f.Status {
	case "active":
		query["isActive"] = true
	case "inactive":
		query["isActive"] = false
	}
	if f.CreatedFrom != nil || f.CreatedTo != nil {
		created := bson.M{}
		if f.CreatedFrom != nil {
			created["$gte"] = *f.CreatedFrom
		}
		if f.CreatedTo != nil {
			created["$lte"] = *f.CreatedTo
		}
		query["createdAt"] = created
	}
	return query
}

// prepareUserDocument fills in the generated fields before insert. The id
// must be assigned here: with an empty _id the driver would generate an
// ObjectID, and the string filters used everywhere else would never match it.
func prepareUserDocument(user *storage.User, now time.Time) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
}

// CreateUser inserts a new account after checking for an email collision
func (s *Store) CreateUser(ctx context.Context, user *storage.User) (err error) {
	start := time.Now()
	defer func() { s.observe("insertOne", usersCollection, start, err) }()

	count, err := s.users.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return storage.ErrDuplicateEmail
	}

	prepareUserDocument(user, time.Now().UTC())

	if _, err = s.users.InsertOne(ctx, user); err != nil {
		if driver.IsDuplicateKeyError(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser loads an account by id
func (s *Store) GetUser(ctx context.Context, id string) (u *storage.User, err error) {
	start := time.Now()
	defer func() { s.observe("findOne", usersCollection, start, err) }()

	var user storage.User
	err = s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail loads an account by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (u *storage.User, err error) {
	start := time.Now()
	defer func() { s.observe("findOne", usersCollection, start, err) }()

	var user storage.User
	err = s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// ListUsers returns a filtered, sorted, paginated page plus the total count
func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter) (users []*storage.User, total int64, err error) {
	start := time.Now()
	defer func() { s.observe("find", usersCollection, start, err) }()

	query := userFilterQuery(filter)

	total, err = s.users.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "email", "lastLogin", "createdAt":
	default:
		sortBy = "createdAt"
	}
	dir := -1
	if filter.SortAsc {
		dir = 1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: dir}})
	if filter.Page > 0 && filter.Limit > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := s.users.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, total, nil
}

// UpdateUser applies a partial update via updateOne. An email change that
// collides with another account fails with ErrDuplicateEmail before any
// write happens.
func (s *Store) UpdateUser(ctx context.Context, id string, update storage.UserUpdate) (u *storage.User, err error) {
	start := time.Now()
	defer func() { s.observe("updateOne", usersCollection, start, err) }()

	if update.Email != nil {
		count, err := s.users.CountDocuments(ctx, bson.M{
			"email": *update.Email,
			"_id":   bson.M{"$ne": id},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return nil, storage.ErrDuplicateEmail
		}
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Password != nil {
		set["password"] = *update.Password
	}
	if update.Role != nil {
		set["role"] = string(*update.Role)
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}
	if update.LastLogin != nil {
		set["lastLogin"] = *update.LastLogin
	}

	res := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var user storage.User
	err = res.Decode(&user)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes an account permanently
func (s *Store) DeleteUser(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("deleteOne", usersCollection, start, err) }()

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountUsers counts accounts matching the filter
func (s *Store) CountUsers(ctx context.Context, filter storage.UserFilter) (n int64, err error) {
	start := time.Now()
	defer func() { s.observe("countDocuments", usersCollection, start, err) }()
	return s.users.CountDocuments(ctx, userFilterQuery(filter))
}

// UserStats summarizes the user collection with one aggregate
func (s *Store) UserStats(ctx context.Context) (stats *storage.UserStats, err error) {
	start := time.Now()
	defer func() { s.observe("aggregate", usersCollection, start, err) }()

	pipeline := driver.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"total":  bson.M{"$sum": 1},
			"active": bson.M{"$sum": bson.M{"$cond": bson.A{"$isActive", 1, 0}}},
			"admins": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$role", string(auth.RoleAdmin)}}, 1, 0}}},
		}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total  int64 `bson:"total"`
		Active int64 `bson:"active"`
		Admins int64 `bson:"admins"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode user stats: %w", err)
	}

	stats = &storage.UserStats{}
	if len(rows) > 0 {
		stats.Total = rows[0].Total
		stats.Active = rows[0].Active
		stats.Inactive = rows[0].Total - rows[0].Active
		stats.Admins = rows[0].Admins
		stats.Regular = rows[0].Total - rows[0].Admins
	}
	return stats, nil
}

// RoleDistribution groups matching accounts by role
func (s *Store) RoleDistribution(ctx context.Context, filter storage.UserFilter) (out []storage.RoleCount, err error) {
	start := time.Now()
	defer func() { s.observe("aggregate", usersCollection, start, err) }()

	pipeline := driver.Pipeline{
		{{Key: "$match", Value: userFilterQuery(filter)}},
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate roles: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode role distribution: %w", err)
	}

	for _, row := range rows {
		out = append(out, storage.RoleCount{Role: auth.Role(row.Role), Count: row.Count})
	}
	return out, nil
}

// RegistrationsByWeekday groups matching accounts by signup weekday.
// $dayOfWeek yields 1 (Sunday) through 7 (Saturday).
func (s *Store) RegistrationsByWeekday(ctx context.Context, filter storage.UserFilter) (out []storage.WeekdayCount, err error) {
	start := time.Now()
	defer func() { s.observe("aggregate", usersCollection, start, err) }()

	pipeline := driver.Pipeline{
		{{Key: "$match", Value: userFilterQuery(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dayOfWeek": "$createdAt"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate registrations: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Day   int   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode registrations: %w", err)
	}

	for _, row := range rows {
		if row.Day < 1 || row.Day > 7 {
			continue
		}
		out = append(out, storage.WeekdayCount{
			Weekday: time.Weekday(row.Day - 1).String(),
			Count:   row.Count,
		})
	}
	return out, nil
}

// LoginFrequency counts logins per day over the trailing window
func (s *Store) LoginFrequency(ctx context.Context, days int) (out []storage.DateCount, err error) {
	start := time.Now()
	defer func() { s.observe("aggregate", usersCollection, start, err) }()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	pipeline := driver.Pipeline{
		{{Key: "$match", Value: bson.M{"lastLogin": bson.M{"$exists": true, "$gte": cutoff}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$lastLogin",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
		{{Key: "$limit", Value: days}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate logins: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode login frequency: %w", err)
	}

	for _, row := range rows {
		out = append(out, storage.DateCount{Date: row.Date, Count: row.Count})
	}
	return out, nil
}

// RegistrationTrend counts signups per day over the trailing window,
// including zero-count days.
func (s *Store) RegistrationTrend(ctx context.Context, days int) (out []storage.DateCount, err error) {
	start := time.Now()
	defer func() { s.observe("aggregate", usersCollection, start, err) }()

	cutoff := time.Now().UTC().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)
	pipeline := driver.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": cutoff}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate registration trend: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode registration trend: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Date] = row.Count
	}

	now := time.Now().UTC()
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, storage.DateCount{Date: day, Count: counts[day]})
	}
	return out, nil
}

// RecentUsers returns the newest accounts
func (s *Store) RecentUsers(ctx context.Context, limit int) (users []*storage.User, err error) {
	start := time.Now()
	defer func() { s.observe("find", usersCollection, start, err) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode recent users: %w", err)
	}
	return users, nil
}

type settingsDoc struct {
	ID        string                 `bson:"_id"`
	Settings  map[string]interface{} `bson:"settings"`
	UpdatedAt time.Time              `bson:"updatedAt"`
}

// GetSettings returns the settings singleton document
func (s *Store) GetSettings(ctx context.Context) (out map[string]interface{}, err error) {
	start := time.Now()
	defer func() { s.observe("findOne", settingsCollection, start, err) }()

	var doc settingsDoc
	err = s.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return doc.Settings, nil
}

// PutSettings upserts the settings singleton document
func (s *Store) PutSettings(ctx context.Context, settings map[string]interface{}) (out map[string]interface{}, err error) {
	start := time.Now()
	defer func() { s.observe("updateOne", settingsCollection, start, err) }()

	res := s.settings.FindOneAndUpdate(ctx,
		bson.M{"_id": settingsDocID},
		bson.M{"$set": bson.M{"settings": settings, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After))

	var doc settingsDoc
	if err = res.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}
	return doc.Settings, nil
}

type sectionDoc struct {
	ID        string                 `bson:"_id"`
	Data      map[string]interface{} `bson:"data"`
	UpdatedAt time.Time              `bson:"updatedAt"`
}

// GetSection returns one website content section
func (s *Store) GetSection(ctx context.Context, name string) (out map[string]interface{}, err error) {
	start := time.Now()
	defer func() { s.observe("findOne", contentCollection, start, err) }()

	var doc sectionDoc
	err = s.content.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load section: %w", err)
	}
	return doc.Data, nil
}

// PutSection upserts one website content section
func (s *Store) PutSection(ctx context.Context, name string, data map[string]interface{}) (err error) {
	start := time.Now()
	defer func() { s.observe("updateOne", contentCollection, start, err) }()

	_, err = s.content.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"data": data, "updatedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store section: %w", err)
	}
	return nil
}

// ListSections lists the stored section names
func (s *Store) ListSections(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { s.observe("find", contentCollection, start, err) }()

	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.content.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	for _, row := range rows {
		names = append(names, row.ID)
	}
	return names, nil
}

// HealthCheck pings the deployment
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
