package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
)

func TestPrepareUserDocument_AssignsID(t *testing.T) {
	now := time.Now().UTC()
	user := &storage.User{
		Name:     "Amal",
		Email:    "amal@example.com",
		Role:     auth.RoleUser,
		IsActive: true,
	}

	prepareUserDocument(user, now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.Equal(t, now, user.UpdatedAt)

	// Distinct ids per document
	other := &storage.User{Email: "other@example.com"}
	prepareUserDocument(other, now)
	assert.NotEqual(t, user.ID, other.ID)
}

func TestPrepareUserDocument_KeepsExistingID(t *testing.T) {
	created := time.Now().UTC().Add(-time.Hour)
	user := &storage.User{ID: "fixed-id", CreatedAt: created}

	prepareUserDocument(user, time.Now().UTC())

	assert.Equal(t, "fixed-id", user.ID)
	assert.Equal(t, created, user.CreatedAt)
}

// The stored _id must be a BSON string so the string filters used by
// GetUser, UpdateUser and DeleteUser can match it. An empty id would be
// omitted on insert and the driver would generate an ObjectID instead,
// which a string filter never matches.
func TestPrepareUserDocument_MarshalsStringID(t *testing.T) {
	user := &storage.User{Email: "amal@example.com", Role: auth.RoleUser}
	prepareUserDocument(user, time.Now().UTC())

	data, err := bson.Marshal(user)
	require.NoError(t, err)

	id := bson.Raw(data).Lookup("_id")
	assert.Equal(t, bson.TypeString, id.Type)
	assert.Equal(t, user.ID, id.StringValue())
}

func TestUserMarshal_EmptyIDIsOmitted(t *testing.T) {
	data, err := bson.Marshal(&storage.User{Email: "amal@example.com"})
	require.NoError(t, err)

	id := bson.Raw(data).Lookup("_id")
	assert.Equal(t, bsontype.Type(0), id.Type, "zero-value id must not reach InsertOne")
}
