package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/Manizz11/6thsem-ecommerce/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// lookupProducts batch-fetches current price, stock, name and images for
// the given ids, keyed by product id. Order placement reads its snapshot
// from this result.
func lookupProducts(productIds []int) (map[int]models.Product, error) {
	var products []models.Product
	result := initializers.DB.
		Preload("Images").
		Where("id IN ?", productIds).
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	byId := make(map[int]models.Product, len(products))
	for _, product := range products {
		byId[int(product.ID)] = product
	}
	return byId, nil
}

// Product handlers
func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func UpdateProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", err)
		}
		return
	}

	var updates models.Product
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := initializers.DB.Model(&product).Updates(map[string]any{
		"name":        updates.Name,
		"description": updates.Description,
		"price":       updates.Price,
		"stock":       updates.Stock,
		"category":    updates.Category,
		"colors":      updates.Colors,
	}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func DeleteProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	result := initializers.DB.Delete(&models.Product{}, productId)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

func UploadProductImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	productIdStr := ctx.PostForm("productId")
	if productIdStr == "" {
		respondWithError(ctx, http.StatusBadRequest, "Missing productId", nil)
		return
	}

	productId, err := strconv.Atoi(productIdStr)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid productId", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key to prevent overwrites
		uniqueFilename := fmt.Sprintf("%d-%s-%s", productId, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(os.Getenv("S3_BUCKET")),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)

		productImage := models.ProductImage{
			Url:       result.Location,
			ProductID: productId,
		}
		if err := initializers.DB.Create(&productImage).Error; err != nil {
			log.Printf("Error saving image to database: %v", err)
		}
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "12"))
	offset := (page - 1) * limit

	query := initializers.DB.Preload("Images")

	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	result := query.Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Product{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("name LIKE ?", "%"+search+"%")
	}
	if category := ctx.Query("category"); category != "" {
		countQuery = countQuery.Where("category = ?", category)
	}
	countQuery.Count(&count)

	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
			"hasNextPage": int(totalPages) > page,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	var product models.Product
	result := initializers.DB.Preload("Images").Preload("Reviews").First(&product, productId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"product": product,
		"reviews": reviewsWithReviewers(product.Reviews),
	})
}

// reviewsWithReviewers resolves reviewer names for display. Reviews carry
// only the user id; the full user row never leaves the server.
func reviewsWithReviewers(reviews []models.Review) []gin.H {
	out := make([]gin.H, 0, len(reviews))
	if len(reviews) == 0 {
		return out
	}

	userIds := make([]int, 0, len(reviews))
	for _, review := range reviews {
		userIds = append(userIds, review.UserID)
	}

	var users []models.User
	names := make(map[int]string, len(userIds))
	if err := initializers.DB.Select("id, fullname").Where("id IN ?", userIds).Find(&users).Error; err != nil {
		log.Println("Reviewer lookup error:", err)
	}
	for _, user := range users {
		names[int(user.ID)] = user.Fullname
	}

	for _, review := range reviews {
		out = append(out, gin.H{
			"reviewId": review.ID,
			"rating":   review.Rating,
			"comment":  review.Comment,
			"reviewer": gin.H{
				"id":   review.UserID,
				"name": names[review.UserID],
			},
		})
	}
	return out
}
