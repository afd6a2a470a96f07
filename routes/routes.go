package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/checkout"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, svc *checkout.Service) {
	SetupProductRoutes(r, db)
	SetupCartRoutes(r, db)
	SetupOrderRoutes(r, db)
	SetupPaymentRoutes(r, db, svc)
	SetupReviewRoutes(r, db)
	SetupWishlistRoutes(r, db)
	SetupContactRoutes(r, db)
}
