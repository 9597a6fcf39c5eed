package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndSignIn(t *testing.T) {
	users := newFakeUserRepo()
	h := NewAuthHandler(users, nil)

	body := `{"name":"Alice","username":"alice","email":"alice@example.com","password":"longenough"}`
	c, rec := newTestContext(http.MethodPost, "/auth/signup", body, 0)
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	// Duplicate email is rejected
	c, _ = newTestContext(http.MethodPost, "/auth/signup", body, 0)
	err := h.Signup(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*echo.HTTPError).Code)

	// Wrong password
	c, _ = newTestContext(http.MethodPost, "/auth/signin", `{"email":"alice@example.com","password":"wrongwrong"}`, 0)
	err = h.SignIn(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	// Correct credentials
	c, rec = newTestContext(http.MethodPost, "/auth/signin", `{"email":"alice@example.com","password":"longenough"}`, 0)
	require.NoError(t, h.SignIn(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignup_RejectsInvalidPayload(t *testing.T) {
	h := NewAuthHandler(newFakeUserRepo(), nil)

	// Password below minimum length
	c, _ := newTestContext(http.MethodPost, "/auth/signup", `{"name":"A","username":"a","email":"bad","password":"short"}`, 0)
	err := h.Signup(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestFirebaseLogin_Unconfigured(t *testing.T) {
	h := NewAuthHandler(newFakeUserRepo(), nil)

	c, _ := newTestContext(http.MethodPost, "/auth/firebase-login", `{"idToken":"abc"}`, 0)
	err := h.FirebaseLogin(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, err.(*echo.HTTPError).Code)
}
