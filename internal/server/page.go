package server

import (
	"inventory/pkg/httperror"
	"net/url"
	"path"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

const flashSuccess = "success"

// Page is the payload handed to the rendering collaborator for a list view.
type Page struct {
	Component string `json:"component"`
	Props     any    `json:"props"`
	URL       string `json:"url"`
	CSRFToken string `json:"csrf_token"`
	Flash     Flash  `json:"flash"`
}

// Flash holds the one-time messages set by the previous request.
type Flash struct {
	Success string `json:"success,omitempty"`
}

// Renderer turns a Page into a response. The default writes it as JSON; an
// HTML shell that boots a client-side app can be plugged in instead.
type Renderer interface {
	Render(c *fiber.Ctx, p Page) error
}

type JSONRenderer struct{}

func (JSONRenderer) Render(c *fiber.Ctx, p Page) error {
	c.Vary(fiber.HeaderAccept)
	return c.JSON(p)
}

type pages struct {
	store    *session.Store
	renderer Renderer
}

func (p *pages) render(c *fiber.Ctx, component string, props any) error {
	flash, err := p.takeFlash(c)
	if err != nil {
		return writeError(c, err)
	}

	return p.renderer.Render(c, Page{
		Component: component,
		Props:     props,
		URL:       c.OriginalURL(),
		CSRFToken: csrfToken(c),
		Flash:     flash,
	})
}

func (p *pages) flash(c *fiber.Ctx, message string) error {
	sess, err := p.store.Get(c)
	if err != nil {
		return sessionError(err)
	}
	sess.Set(flashSuccess, message)
	if err := sess.Save(); err != nil {
		return sessionError(err)
	}
	return nil
}

// takeFlash reads and clears the flash, so it is shown exactly once.
func (p *pages) takeFlash(c *fiber.Ctx) (Flash, error) {
	sess, err := p.store.Get(c)
	if err != nil {
		return Flash{}, sessionError(err)
	}

	msg, ok := sess.Get(flashSuccess).(string)
	if !ok {
		return Flash{}, nil
	}

	sess.Delete(flashSuccess)
	if err := sess.Save(); err != nil {
		return Flash{}, sessionError(err)
	}
	return Flash{Success: msg}, nil
}

func sessionError(err error) error {
	zap.L().Error("Session storage failed", zap.Error(err))
	return httperror.InternalServerError(
		"session.storage_failed",
		"Session storage is unavailable",
		nil,
	)
}

// back resolves the redirect target of a destructive action: the Referer
// when it points at this host, otherwise the collection the entity lives in.
func back(c *fiber.Ctx) string {
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == c.Hostname()) && u.Path != "" {
			if u.RawQuery != "" {
				return u.Path + "?" + u.RawQuery
			}
			return u.Path
		}
	}
	return path.Dir(c.Path())
}
