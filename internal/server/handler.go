package server

import (
	"context"
	"encoding/json"
	"errors"
	"inventory/pkg/httperror"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// fieldSetter is implemented by requests that validate the raw body
// themselves instead of binding it to struct fields.
type fieldSetter interface {
	SetFields(map[string]any)
}

// statusCoder lets a response pick a success status other than 200.
type statusCoder interface {
	StatusCode() int
}

// flasher is implemented by responses that are acknowledged with a redirect
// and a one-time session message.
type flasher interface {
	FlashMessage() string
}

func bind[R Request](c *fiber.Ctx) (*R, error) {
	var req R

	if fs, ok := any(&req).(fieldSetter); ok {
		fields, err := parseFields(c)
		if err != nil {
			return nil, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			)
		}
		fs.SetFields(fields)
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return nil, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			)
		}
	}

	if err := c.ParamsParser(&req); err != nil {
		return nil, httperror.BadRequest(
			"request.invalid_path_params",
			"Invalid path params",
			fiber.Map{"error": err.Error()},
		)
	}

	if err := c.QueryParser(&req); err != nil {
		return nil, httperror.BadRequest(
			"request.invalid_query_params",
			"Invalid query params",
			fiber.Map{"error": err.Error()},
		)
	}

	return &req, nil
}

// parseFields reads a JSON object or a form body into a field map. Form
// values stay strings; the rule table converts them.
func parseFields(c *fiber.Ctx) (map[string]any, error) {
	fields := make(map[string]any)
	body := c.Body()
	if len(body) == 0 {
		return fields, nil
	}

	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			fields[string(k)] = string(v)
		})
		return fields, nil
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		return fields, nil
	}

	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return fields, nil
}

// handle serves a handler as a JSON endpoint.
func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := bind[R](c)
		if err != nil {
			return writeError(c, err)
		}

		res, err := handler.Handle(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}

		status := fiber.StatusOK
		if sc, ok := any(res).(statusCoder); ok {
			status = sc.StatusCode()
		}
		return c.Status(status).JSON(res)
	}
}

// page serves a handler as a rendered page whose props are the response.
func page[R Request, Res Response](p *pages, component string, handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := bind[R](c)
		if err != nil {
			return writeError(c, err)
		}

		res, err := handler.Handle(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}

		return p.render(c, component, res)
	}
}

// redirect serves a handler whose success is acknowledged with a 303 back to
// the previous page, carrying the response's flash message.
func redirect[R Request, Res Response](p *pages, handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := bind[R](c)
		if err != nil {
			return writeError(c, err)
		}

		res, err := handler.Handle(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}

		if f, ok := any(res).(flasher); ok {
			if err := p.flash(c, f.FlashMessage()); err != nil {
				return writeError(c, err)
			}
		}

		return c.Redirect(back(c), fiber.StatusSeeOther)
	}
}
