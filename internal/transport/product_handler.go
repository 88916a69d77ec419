package transport

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"milka-pos/internal/middleware"
	"milka-pos/internal/service"
	"milka-pos/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// formAllowance is the room left for text fields on top of the image cap
	formAllowance = 1 << 20
	// multipartMemory is buffered in memory before parts spill to disk
	multipartMemory = 8 << 20
)

// ProductForm represents the add-product form fields
type ProductForm struct {
	Name      string `form:"name" validate:"required"`
	Brand     string `form:"brand" validate:"required"`
	Category  string `form:"category" validate:"required"`
	Quantity  string `form:"quantity" validate:"required,nonnegint"`
	PriceEach string `form:"price_each" validate:"required,money=9999999999.99"`
}

// CreateProductResponse represents the add-product response
type CreateProductResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	images         storage.ImageStore
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, images storage.ImageStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		images:         images,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
}

// ListProducts returns all products, newest first
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		middleware.RespondWithInternalError(w, h.logger, "failed to list products", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

// CreateProduct handles the multipart add-product form
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	limit := h.images.MaxBytes() + formAllowance
	if r.ContentLength > limit {
		middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}

		h.logger.Debug("Product form parsing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	form := ProductForm{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Brand:     strings.TrimSpace(r.PostFormValue("brand")),
		Category:  strings.TrimSpace(r.PostFormValue("category")),
		Quantity:  strings.TrimSpace(r.PostFormValue("quantity")),
		PriceEach: strings.TrimSpace(r.PostFormValue("price_each")),
	}

	validationErrors := []middleware.ValidationError{}
	if err := middleware.ValidateRequest(form); err != nil {
		validationErrors = append(validationErrors, middleware.FormatValidationErrors(err)...)
	}

	upload, imageErr := h.imageUpload(r)
	if imageErr != nil {
		validationErrors = append(validationErrors, *imageErr)
	}
	if upload != nil {
		defer upload.file.Close()
	}

	if len(validationErrors) > 0 {
		h.logger.Debug("Product validation failed", zap.Any("errors", validationErrors))
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	// Both values passed nonnegint/money above
	quantity, _ := strconv.Atoi(form.Quantity)
	priceEach, _ := strconv.ParseFloat(form.PriceEach, 64)

	if float64(quantity)*priceEach > middleware.MaxAmount {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{{
			Field:   "price_total",
			Message: "Quantity times price_each must not exceed " + strconv.FormatFloat(middleware.MaxAmount, 'f', 2, 64),
		}})
		return
	}

	input := service.CreateProductInput{
		Name:      form.Name,
		Brand:     form.Brand,
		Category:  form.Category,
		Quantity:  quantity,
		PriceEach: priceEach,
	}
	if upload != nil {
		input.Image = &service.ImageUpload{Filename: upload.filename, Content: upload.file}
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrImageTooLarge):
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "image too large")
		case errors.Is(err, storage.ErrUnsupportedImageType):
			middleware.RespondWithValidationErrors(w, []middleware.ValidationError{unsupportedImage})
		default:
			middleware.RespondWithInternalError(w, h.logger, "failed to add product", err)
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CreateProductResponse{
		Message:   "Product added successfully",
		ProductID: product.ID,
	})
}

var unsupportedImage = middleware.ValidationError{
	Field:   "image",
	Message: "Image must be a png, jpg, jpeg, gif or webp file",
}

type imagePart struct {
	filename string
	file     multipart.File
}

// imageUpload returns the optional image part. A part without a file name
// counts as no image.
func (h *ProductHandler) imageUpload(r *http.Request) (*imagePart, *middleware.ValidationError) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, &middleware.ValidationError{Field: "image", Message: "Image could not be read"}
	}

	if verr := h.images.Validate(header.Filename, header.Size); verr != nil {
		file.Close()
		if errors.Is(verr, storage.ErrImageTooLarge) {
			return nil, &middleware.ValidationError{Field: "image", Message: "Image is larger than the upload limit"}
		}
		unsupported := unsupportedImage
		return nil, &unsupported
	}

	return &imagePart{filename: header.Filename, file: file}, nil
}
