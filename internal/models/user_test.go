package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayAvatarFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "ProfilePhoto wins",
			user: User{ProfilePhoto: "photo.png", ProfilePicture: "picture.png", Avatar: "avatar.png"},
			want: "photo.png",
		},
		{
			name: "ProfilePicture next",
			user: User{ProfilePicture: "picture.png", Avatar: "avatar.png"},
			want: "picture.png",
		},
		{
			name: "Avatar last",
			user: User{Avatar: "avatar.png"},
			want: "avatar.png",
		},
		{
			name: "All empty",
			user: User{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayAvatar())
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", (&User{Name: "Alice", FullName: "Alice Smith"}).DisplayName())
	assert.Equal(t, "Alice Smith", (&User{FullName: "Alice Smith"}).DisplayName())
	assert.Equal(t, "", (&User{}).DisplayName())
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, "dark", prefs.Theme)
	assert.True(t, prefs.Notifications.Email)
	assert.True(t, prefs.Notifications.Push)
	assert.False(t, prefs.Notifications.Marketing)
}

func TestUserJSONNeverExposesPassword(t *testing.T) {
	user := User{Username: "alice", Email: "alice@example.com", Password: "bcrypt-hash"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "bcrypt-hash")
	assert.NotContains(t, string(data), "password")
}
