package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/models"
)

// GET /exports/products (staff) — downloads the full catalog as an .xlsx.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{"ID", "Name", "Description", "Price", "Stock", "Category", "CreatedAt"}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().Value = h
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().Value = strconv.FormatUint(uint64(p.ID), 10)
			row.AddCell().Value = p.Name
			row.AddCell().Value = p.Description
			row.AddCell().Value = p.Price.StringFixed(2)
			row.AddCell().Value = strconv.Itoa(p.StockQuantity)
			row.AddCell().Value = string(p.Category)
			row.AddCell().Value = p.CreatedAt.Format("2006-01-02 15:04:05")
		}

		c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
