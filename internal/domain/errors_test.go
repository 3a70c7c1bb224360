package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameTakenError(t *testing.T) {
	err := &UsernameTakenError{Username: "bob"}
	assert.Equal(t, "The username has already been taken: bob", err.Error())
}

func TestUserNotFoundError(t *testing.T) {
	err := UserNotFoundByUserID("abc")
	assert.Equal(t, "User with the user_id 'abc' does not exist.", err.Error())
	assert.True(t, strings.HasSuffix(UserNotFoundByUsername("bob").Error(), "does not exist."))

	wrapped := fmt.Errorf("lookup: %w", err)
	var nf *UserNotFoundError
	assert.True(t, errors.As(wrapped, &nf))
	assert.Equal(t, "user_id", nf.Field)
	assert.Equal(t, "abc", nf.Value)
}
