package controllers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// formValues collects a url-encoded or multipart form body into a flat map.
// The first value wins for repeated keys.
func formValues(c *fiber.Ctx) map[string]string {
	form := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if _, ok := form[key]; !ok {
			form[key] = string(v)
		}
	})
	if len(form) > 0 {
		return form
	}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if mf, err := c.MultipartForm(); err == nil {
			for k, vs := range mf.Value {
				if len(vs) > 0 {
					form[k] = vs[0]
				}
			}
		}
	}
	return form
}

// withQuery appends key=value to a redirect target.
func withQuery(target, key, value string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + key + "=" + value
}
