package controllers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupMockDB points the package-level gorm handle at a sqlmock-backed
// connection for the duration of one test.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	previous := initializers.DB
	initializers.DB = gormDB
	t.Cleanup(func() {
		initializers.DB = previous
		db.Close()
	})
	return mock
}

// withClaims stands in for middlewares.RequireAuth in handler tests.
func withClaims(claims jwt.MapClaims) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("user", claims)
		ctx.Next()
	}
}

func buyerClaims(userId int) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": float64(userId),
		"name":    "Ram Thapa",
		"email":   "ram@example.com",
		"phone":   "9841000000",
		"role":    "User",
	}
}

func performJSONRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func assertExpectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	require.NoError(t, mock.ExpectationsWereMet())
}
