package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reviewControllers "github.com/shopworks/ecommerce-api/controllers/review"
	"github.com/shopworks/ecommerce-api/middleware"
)

func SetupReviewRoutes(r *gin.Engine, db *gorm.DB) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("", reviewControllers.ListReviews(db))
		reviews.POST("", middleware.ValidateToken, reviewControllers.CreateReview(db))
	}
}
