package category

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
	MsgCreated = "Category created successfully!"
	MsgUpdated = "Category updated successfully!"
	MsgDeleted = "Category deleted successfully!"

	msgInvalid = "The given data was invalid."
)

type CreateCategoryHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

type CreateCategoryRequest struct {
	Fields map[string]any `json:"-"`
}

func (r *CreateCategoryRequest) SetFields(fields map[string]any) {
	r.Fields = fields
}

type CreateCategoryResponse struct {
	Message  string          `json:"message"`
	Category domain.Category `json:"category"`
}

func (CreateCategoryResponse) StatusCode() int {
	return http.StatusCreated
}

func NewCreateCategoryHandler(repository Repository, eventPublisher events.Publisher) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	values, err := Rules(h.repository, 0).Validate(ctx, req.Fields)
	if err != nil {
		return nil, validationError("category.create", err)
	}

	category, err := h.repository.CreateCategory(ctx, applyValues(DefaultInput(), values))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			return nil, duplicateNameError("category.create")
		}

		zap.L().Error("Failed to create category", zap.Error(err))
		return nil, httperror.InternalServerError(
			"category.create.create_failed",
			"An error occurred while creating the category",
			nil,
		)
	}

	events.Emit(ctx, h.eventPublisher, events.CategoryCreatedEvent, payload(category))

	return &CreateCategoryResponse{
		Message:  MsgCreated,
		Category: category,
	}, nil
}

// validationError turns a rule table failure into a 422, or a 500 when a
// rule could not be evaluated at all.
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

// duplicateNameError reports a unique index violation the same way the
// unique rule would have.
func duplicateNameError(op string) error {
	return httperror.UnprocessableEntity(op+".validation_failed", msgInvalid, validation.Errors{
		"name": {"The name has already been taken."},
	})
}

func payload(c domain.Category) events.CategoryPayload {
	return events.CategoryPayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
