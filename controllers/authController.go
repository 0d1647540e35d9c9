package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/Manizz11/6thsem-ecommerce/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput        = "invalid input"
	msgUserAlreadyExists   = "user with this email already exists"
	msgFailedToHash        = "failed to hash password"
	msgInvalidCredentials  = "invalid email or password"
	msgFailedToIssueToken  = "failed to generate token"
	msgInternalServerError = "Internal server error"
	msgUserCreated         = "Account created successfully."
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"success": false, "message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Fullname,
		"email":   user.Email,
		"phone":   user.Phone,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

// currentUserClaims returns the JWT claims placed in the context by
// middlewares.RequireAuth.
func currentUserClaims(ctx *gin.Context) jwt.MapClaims {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return jwt.MapClaims{}
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func currentUserID(ctx *gin.Context) int {
	id, ok := currentUserClaims(ctx)["user_id"].(float64)
	if !ok {
		return 0
	}
	return int(id)
}

func claimString(ctx *gin.Context, key string) string {
	value, _ := currentUserClaims(ctx)[key].(string)
	return value
}

// Signup handles user registration
func Signup(ctx *gin.Context) {
	var signUpData models.User
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existingUser models.User
	result := initializers.DB.Where("email = ?", signUpData.Email).Find(&existingUser)
	if result.Error != nil {
		log.Println("Database error during user check:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHash)
		return
	}
	signUpData.Password = hashedPassword

	// Assign default role if not specified
	if signUpData.Role == "" {
		signUpData.Role = "User"
	}

	if result := initializers.DB.Create(&signUpData); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"success": true, "message": msgUserCreated})
}

// Login handles user authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if result := initializers.DB.Where("email = ?", loginData.Email).First(&user); result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToIssueToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user": gin.H{
			"id":       user.ID,
			"fullname": user.Fullname,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
