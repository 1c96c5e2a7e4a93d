package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user := NewUser("  Alice@Example.COM ")

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Zero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, "users", user.TableName())
}

func TestSuperUser_TableName(t *testing.T) {
	assert.Equal(t, "super_users", SuperUser{}.TableName())
}

func TestNewChannel(t *testing.T) {
	ch := NewChannel("golang", "Go links", VisibilityPrivate)

	assert.Equal(t, "golang", ch.Name)
	assert.True(t, ch.IsPrivate())
	assert.Equal(t, "channels", ch.TableName())

	ch.Visibility = VisibilityPublic
	assert.False(t, ch.IsPrivate())
}

func TestVisibility_IsValid(t *testing.T) {
	assert.True(t, VisibilityPublic.IsValid())
	assert.True(t, VisibilityPrivate.IsValid())
	assert.False(t, Visibility("public").IsValid())
	assert.False(t, Visibility("").IsValid())
}

func TestChannel_JSONMarshaling(t *testing.T) {
	data, err := json.Marshal(Channel{ID: 3, Name: "ops", Visibility: VisibilityPublic})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "PUBLIC", decoded["visibility"])
	assert.Equal(t, float64(3), decoded["id"])
}

func TestRelation_TableName(t *testing.T) {
	tests := []struct {
		relation Relation
		table    string
	}{
		{RelationOwner, "channel_owners"},
		{RelationAdmin, "channel_admins"},
		{RelationMember, "channel_members"},
	}

	for _, tt := range tests {
		t.Run(string(tt.relation), func(t *testing.T) {
			assert.True(t, tt.relation.IsValid())
			assert.Equal(t, tt.table, tt.relation.TableName())
		})
	}

	assert.False(t, Relation("guest").IsValid())
	assert.Panics(t, func() { _ = Relation("guest").TableName() })
}

func TestNewLinkAndChannelLink(t *testing.T) {
	link := NewLink(9, "https://go.dev", "Go", "home page")
	link.ID = 4
	assert.Equal(t, "links", link.TableName())

	cl := NewChannelLink(2, link, "Go home")
	assert.Equal(t, int64(2), cl.ChannelID)
	assert.Equal(t, int64(4), cl.LinkID)
	assert.Equal(t, int64(9), cl.UserID)
	assert.Equal(t, "https://go.dev", cl.URL)
	assert.Equal(t, "channel_links", cl.TableName())
}
