package wishlistControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/middleware"
	"github.com/shopworks/ecommerce-api/models"
)

type CreateWishlistRequest struct {
	Name string `json:"name" binding:"omitempty,max=100"`
}

type WishlistProductRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ownedWishlist loads the wishlist and enforces ownership (staff may touch
// any wishlist, matching the admin permission on the original endpoints).
func ownedWishlist(c *gin.Context, db *gorm.DB) (*models.Wishlist, bool) {
	userID, _ := middleware.UserID(c)

	var wishlist models.Wishlist
	if err := db.Preload("Products").First(&wishlist, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		}
		return nil, false
	}
	if wishlist.UserID != userID && !middleware.IsStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
		return nil, false
	}
	return &wishlist, true
}

// GET /wishlist
func ListWishlists(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var wishlists []models.Wishlist
		if err := db.Preload("Products").Where("user_id = ?", userID).Find(&wishlists).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlists"})
			return
		}
		c.JSON(http.StatusOK, wishlists)
	}
}

// POST /wishlist
func CreateWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var req CreateWishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		wishlist := models.Wishlist{UserID: userID, Name: req.Name}
		if err := db.Create(&wishlist).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wishlist"})
			return
		}
		c.JSON(http.StatusCreated, wishlist)
	}
}

// POST /wishlist/:id/products
func AddProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		wishlist, ok := ownedWishlist(c, db)
		if !ok {
			return
		}

		var req WishlistProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if err := db.Model(wishlist).Association("Products").Append(&product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to wishlist"})
			return
		}

		db.Preload("Products").First(wishlist, wishlist.ID)
		c.JSON(http.StatusOK, wishlist)
	}
}

// DELETE /wishlist/:id/products/:product_id
func RemoveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		wishlist, ok := ownedWishlist(c, db)
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("product_id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if err := db.Model(wishlist).Association("Products").Delete(&product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove product from wishlist"})
			return
		}

		db.Preload("Products").First(wishlist, wishlist.ID)
		c.JSON(http.StatusOK, wishlist)
	}
}

// GET /wishlist/:id/products
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		wishlist, ok := ownedWishlist(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, wishlist.Products)
	}
}
