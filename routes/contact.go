package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	contactControllers "github.com/shopworks/ecommerce-api/controllers/contact"
)

func SetupContactRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/contact/", contactControllers.SubmitContactForm(db))
}
