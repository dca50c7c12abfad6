package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/vbncursed/vkr/wallet-service/internal/service"
)

// PKPassContentType — MIME-тип архива Apple Wallet
const PKPassContentType = "application/vnd.apple.pkpass"

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(c echo.Context, status int, v any) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(status, v)
}

func writeError(c echo.Context, err error) error {
	status, body := MapError(err)
	return writeJSON(c, status, body)
}

// writePass отдаёт .pkpass как вложение; кошелёк не должен брать его из кэша
func writePass(c echo.Context, art *service.Artifact) error {
	h := c.Response().Header()
	h.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", art.Filename))
	return c.Blob(http.StatusOK, PKPassContentType, art.Archive)
}

// render собирает фрагмент в буфер до записи заголовков
func render(c echo.Context, status int, comp templ.Component) error {
	var buf bytes.Buffer
	if err := comp.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(status, buf.Bytes())
}

func DefaultHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		_ = writeJSON(c, he.Code, APIError{
			Code:    http.StatusText(he.Code),
			Message: fmt.Sprint(he.Message),
		})
		return
	}
	_ = writeJSON(c, http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"})
}
