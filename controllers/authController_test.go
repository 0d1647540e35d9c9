package controllers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	router := gin.New()
	router.POST("/auth/signup", Signup)
	router.POST("/auth/login", Login)
	return router
}

func userRows(password string) *sqlmock.Rows {
	hashed, _ := hashPassword(password)
	return sqlmock.NewRows([]string{"id", "fullname", "email", "phone", "password", "role"}).
		AddRow(7, "Ram Thapa", "ram@example.com", "9841000000", hashed, "User")
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows("password123"))

	body := `{"fullname":"Ram Thapa","email":"ram@example.com","password":"password123"}`
	recorder := performJSONRequest(authRouter(), http.MethodPost, "/auth/signup", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "already exists")
	assertExpectationsMet(t, mock)
}

func TestSignupCreatesUserWithHashedPassword(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"fullname":"Sita Sharma","email":"sita@example.com","password":"password123"}`
	recorder := performJSONRequest(authRouter(), http.MethodPost, "/auth/signup", body)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "Account created successfully")
	assertExpectationsMet(t, mock)
}

func TestLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows("password123"))

	body := `{"email":"ram@example.com","password":"password123"}`
	recorder := performJSONRequest(authRouter(), http.MethodPost, "/auth/login", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Token)
	assertExpectationsMet(t, mock)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(userRows("password123"))

	body := `{"email":"ram@example.com","password":"not-the-password"}`
	recorder := performJSONRequest(authRouter(), http.MethodPost, "/auth/login", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "invalid email or password")
	assertExpectationsMet(t, mock)
}
