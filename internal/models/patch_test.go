package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPatchApplyTo(t *testing.T) {
	user := User{ID: 1, Name: "Alice", Email: "alice@example.com"}

	email := "new@example.com"
	UserPatch{Email: &email}.ApplyTo(&user)

	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestItemPatchApplyTo(t *testing.T) {
	item := Item{ID: 1, Name: "Drill", Description: "700W", Available: true}

	name := "Hammer Drill"
	available := false
	ItemPatch{Name: &name, Available: &available}.ApplyTo(&item)

	assert.Equal(t, "Hammer Drill", item.Name)
	assert.Equal(t, "700W", item.Description)
	assert.False(t, item.Available)

	// Empty patch changes nothing.
	ItemPatch{}.ApplyTo(&item)
	assert.Equal(t, "Hammer Drill", item.Name)
}
