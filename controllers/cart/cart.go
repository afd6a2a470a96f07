package cartControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/middleware"
	"github.com/shopworks/ecommerce-api/models"
)

type CartItemInput struct {
	ProductID uint `json:"product" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

type AddProductsInput struct {
	Products []CartItemInput `json:"products" binding:"required,dive"`
}

// getOrCreateCart returns the user's cart, creating one on first use.
func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	cart = models.Cart{UserID: userID, Status: models.CartStatusOpen}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// cartLocked rejects mutations while a checkout holds the cart.
func cartLocked(c *gin.Context, cart *models.Cart) bool {
	if cart.Status == models.CartStatusCheckingOut {
		c.JSON(http.StatusConflict, gin.H{"error": "A checkout is in progress for this cart"})
		return true
	}
	return false
}

// GET /cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		cart, err := getOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart/add
func AddCartItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input AddProductsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if len(input.Products) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "No products provided"})
			return
		}

		cart, err := getOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if cartLocked(c, cart) {
			return
		}

		for _, entry := range input.Products {
			quantity := entry.Quantity
			if quantity == 0 {
				quantity = 1
			}

			var product models.Product
			if err := db.First(&product, "id = ?", entry.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				} else {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
				}
				return
			}

			// One row per (cart, product): creating again leaves the
			// existing quantity untouched, matching get_or_create.
			var item models.CartItem
			err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, product.ID).First(&item).Error
			if err == gorm.ErrRecordNotFound {
				item = models.CartItem{
					CartID:    cart.CartID,
					ProductID: product.ID,
					Quantity:  quantity,
					AddedAt:   time.Now(),
				}
				if err := db.Create(&item).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
					return
				}
			} else if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
				return
			}
		}

		var items []models.CartItem
		if err := db.Where("cart_id = ?", cart.CartID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}
		c.JSON(http.StatusCreated, items)
	}
}

// PUT /cart/items/:id
func UpdateCartItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input struct {
			Quantity int `json:"quantity" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var item models.CartItem
		if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		var cart models.Cart
		if err := db.First(&cart, "cart_id = ?", item.CartID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if cart.UserID != userID && !middleware.IsStaff(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update the quantity in this cart."})
			return
		}
		if cartLocked(c, &cart) {
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/items/:id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var item models.CartItem
		if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		var cart models.Cart
		if err := db.First(&cart, "cart_id = ?", item.CartID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if cart.UserID != userID && !middleware.IsStaff(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to remove this product from the cart."})
			return
		}
		if cartLocked(c, &cart) {
			return
		}

		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "CartItem deleted successfully"})
	}
}

// DELETE /cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}
		if cartLocked(c, &cart) {
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
