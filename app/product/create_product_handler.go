package product

import (
	"context"
	"errors"
	"inventory/domain"
	"inventory/pkg/events"
	"inventory/pkg/httperror"
	"inventory/pkg/validation"
	"net/http"

	"go.uber.org/zap"
)

const (
	MsgCreated = "Product created successfully!"
	MsgUpdated = "Product updated successfully!"
	MsgDeleted = "Product deleted successfully!"

	msgInvalid = "The given data was invalid."
)

type CreateProductHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

type CreateProductRequest struct {
	Fields map[string]any `json:"-"`
}

func (r *CreateProductRequest) SetFields(fields map[string]any) {
	r.Fields = fields
}

type CreateProductResponse struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}

func (CreateProductResponse) StatusCode() int {
	return http.StatusCreated
}

func NewCreateProductHandler(repository Repository, eventPublisher events.Publisher) *CreateProductHandler {
	return &CreateProductHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h CreateProductHandler) Handle(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	values, err := Rules(h.repository).Validate(ctx, req.Fields)
	if err != nil {
		return nil, validationError("product.create", err)
	}

	created, err := h.repository.CreateProduct(ctx, applyValues(domain.ProductInput{}, values))
	if err != nil {
		zap.L().Error("Failed to create product", zap.Error(err))
		return nil, httperror.InternalServerError(
			"product.create.create_failed",
			"An error occurred while creating the product",
			nil,
		)
	}

	product, err := h.repository.GetProduct(ctx, created.ID)
	if err != nil {
		zap.L().Error("Failed to reload product", zap.Int64("productId", created.ID), zap.Error(err))
		return nil, httperror.InternalServerError(
			"product.create.reload_failed",
			"An error occurred while loading the created product",
			nil,
		)
	}

	events.Emit(ctx, h.eventPublisher, events.ProductCreatedEvent, payload(product))

	return &CreateProductResponse{
		Message: MsgCreated,
		Product: product,
	}, nil
}

func validationError(op string, err error) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return httperror.UnprocessableEntity(op+".validation_failed", msgInvalid, errs)
	}

	zap.L().Error("Validation could not be evaluated", zap.String("operation", op), zap.Error(err))
	return httperror.InternalServerError(
		op+".validation_error",
		"An unexpected validation error occurred",
		nil,
	)
}

func lookupError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperror.NotFound(
			op+".not_found",
			"Product not found",
			nil,
		)
	}

	zap.L().Error("Failed to get product", zap.String("operation", op), zap.Error(err))
	return httperror.InternalServerError(
		op+".failed",
		"Failed to get product",
		nil,
	)
}

func payload(p domain.Product) events.ProductPayload {
	return events.ProductPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(PriceScale),
		Stock:       p.Stock,
		Status:      string(p.Status),
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
