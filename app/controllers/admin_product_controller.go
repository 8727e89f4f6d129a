package controllers

import (
	"errors"
	"net/http"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/bind"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/middleware"
	"github.com/sujinlee/moamall/pkg/response"
)

// maxImageUpload caps a single product image at 8 MB.
const maxImageUpload = 8 << 20

// AdminProductController is the role-guarded catalogue console. Every
// mutation is audit-logged with the acting admin's user id.
type AdminProductController struct {
	products *services.ProductAdminService
}

func NewAdminProductController(products *services.ProductAdminService) *AdminProductController {
	return &AdminProductController{products: products}
}

func auditLog(r *http.Request, msg string, args ...any) {
	userID, _ := middleware.UserIDFromCtx(r)
	base := []any{logger.AuditKey, "admin", "actor_id", userID}
	logger.WithCtx(r.Context()).Info(msg, append(base, args...)...)
}

func (c *AdminProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	products, pagination, err := c.products.List(page, limit)
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Paginated(w, products, pagination)
}

func (c *AdminProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := c.products.Find(id)
	if errors.Is(err, services.ErrProductNotFound) {
		response.NotFound(w)
		return
	} else if err != nil {
		response.ServerError(w)
		return
	}
	response.Success(w, product)
}

type productRequest struct {
	CategoryID  uint    `json:"category_id" validate:"required,min=1"`
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	SKU         string  `json:"sku" validate:"required,min=2,max=64"`
	Published   *bool   `json:"published"`
}

func (req *productRequest) apply(p *models.Product) {
	p.CategoryID = req.CategoryID
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.Stock = req.Stock
	p.SKU = req.SKU
	if req.Published != nil {
		p.Published = *req.Published
	}
}

func (c *AdminProductController) Create(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{Published: true}
	body.apply(&product)

	if err := c.products.Create(&product); err != nil {
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.ServerError(w)
		return
	}

	auditLog(r, "product created", "product_id", product.ID, "sku", product.SKU)
	response.Created(w, product)
}

func (c *AdminProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var body productRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Find(id)
	if errors.Is(err, services.ErrProductNotFound) {
		response.NotFound(w)
		return
	} else if err != nil {
		response.ServerError(w)
		return
	}

	body.apply(&product)
	if err := c.products.Update(&product); err != nil {
		logger.WithCtx(r.Context()).Error("product update failed", "product_id", id, "error", err)
		response.ServerError(w)
		return
	}

	auditLog(r, "product updated", "product_id", product.ID)
	response.Success(w, product)
}

func (c *AdminProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if err := c.products.Delete(id); err != nil {
		logger.WithCtx(r.Context()).Error("product delete failed", "product_id", id, "error", err)
		response.ServerError(w)
		return
	}

	auditLog(r, "product deleted", "product_id", id)
	response.Success(w, map[string]interface{}{"deleted": id})
}

// UploadImage accepts a multipart form with an "image" file field and
// stores it on the configured disk (local or S3).
func (c *AdminProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	url, err := c.products.AttachImage(id, header.Filename, file)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		response.NotFound(w)
		return
	case errors.Is(err, services.ErrBadImage):
		response.Error(w, http.StatusUnprocessableEntity, "Unsupported image type")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("image upload failed", "product_id", id, "error", err)
		response.ServerError(w)
		return
	}

	auditLog(r, "product image uploaded", "product_id", id, "file", header.Filename)
	response.Success(w, map[string]interface{}{"url": url})
}
