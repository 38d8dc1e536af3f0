package handlers

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
// Reads are public; mutations are admin-gated.
type ProductHandler struct {
	service   *services.ProductService
	validate  *validator.Validate
	uploadDir string
}

// NewProductHandler creates a new ProductHandler. uploadDir is where
// product images land; it is served read-only under /images.
func NewProductHandler(service *services.ProductService, uploadDir string) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireAuth, requireAdmin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", requireAuth, requireAdmin, h.HandleCreateProduct)
	productRoutes.Put("/:id", requireAuth, requireAdmin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", requireAuth, requireAdmin, h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve product",
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product from a multipart form
// (name, price, description, optional image).
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product, ok := h.parseProductForm(c, nil)
	if !ok {
		return nil // error response already written
	}

	if err := h.service.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		if errors.Is(err, services.ErrInvalidPrice) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product from a multipart
// form. The image is kept unless a new one is uploaded.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	existing, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error loading product %s for update: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update product",
		})
	}

	product, ok := h.parseProductForm(c, existing)
	if !ok {
		return nil // error response already written
	}
	product.ID = productID
	product.CreatedAt = existing.CreatedAt // keep catalog ordering stable across updates

	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update product",
		})
	}

	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID. Carts referencing
// it are not touched here; they self-heal on their next operation.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete product",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// parseProductForm reads the multipart product form, validates it and
// stores the uploaded image if one was sent. existing carries the
// prior state on update (nil on create) so the image survives when no
// new file is uploaded. On failure it writes the error response and
// returns false.
func (h *ProductHandler) parseProductForm(c *fiber.Ctx, existing *models.Product) (*models.Product, bool) {
	name := c.FormValue("name")
	priceStr := c.FormValue("price")
	description := c.FormValue("description")

	if name == "" || priceStr == "" || description == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "All fields are required",
		})
		return nil, false
	}

	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil || price < 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price must be a non-negative integer",
		})
		return nil, false
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
	if existing != nil {
		product.Image = existing.Image
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		if !services.AllowedImage(file.Filename, file.Header.Get("Content-Type")) {
			_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": services.ErrInvalidImage.Error(),
			})
			return nil, false
		}
		// Base name only, so the stored reference cannot escape the
		// upload directory.
		filename := filepath.Base(file.Filename)
		if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
			log.Printf("Error saving uploaded image %s: %v", filename, err)
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not store image",
			})
			return nil, false
		}
		product.Image = filename
	}

	if err := h.validate.Struct(product); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
		return nil, false
	}

	return product, true
}
