package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vbncursed/vkr/wallet-service/internal/http/dto"
	"github.com/vbncursed/vkr/wallet-service/internal/http/views"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
	"github.com/vbncursed/vkr/wallet-service/internal/service"
)

// WalletService — use case'ы, которые обслуживает HTTP-слой
type WalletService interface {
	Issue(ctx context.Context, platform models.Platform, userID int64, nonce string) (*service.Artifact, error)
	Verify(ctx context.Context, token string) (*service.VerificationView, error)
	Links(ctx context.Context, userID int64) (*service.WalletLinks, error)
}

var _ WalletService = (*service.Service)(nil)

// WalletAction — единая точка входа с параметром action
// @Summary     Выпуск или проверка по action
// @Tags        wallet
// @Produce     application/vnd.apple.pkpass
// @Produce     html
// @Param       action query string true  "issue-apple | issue-google | verify"
// @Param       user   query int    false "ID участника"
// @Param       nonce  query string false "Nonce из ссылки выпуска"
// @Param       token  query string false "Токен проверки из QR"
// @Success     200
// @Success     302
// @Failure     400 {object} APIError
// @Failure     403 {object} APIError
// @Failure     404 {object} APIError
// @Failure     500 {object} APIError
// @Router      /wallet [get]
func WalletAction(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q dto.WalletActionQuery
		if err := c.Bind(&q); err != nil {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "malformed"})
		}
		if err := q.Validate(); err != nil {
			return writeError(c, err)
		}
		switch q.Action {
		case dto.ActionIssueApple:
			return issue(c, svc, models.PlatformApple, q.User, q.Nonce)
		case dto.ActionIssueGoogle:
			return issue(c, svc, models.PlatformGoogle, q.User, q.Nonce)
		default:
			return verifyPage(c, svc, q.Token)
		}
	}
}

// IssueApple — выпуск .pkpass
// @Summary     Скачать пропуск Apple Wallet
// @Tags        wallet
// @Produce     application/vnd.apple.pkpass
// @Param       user  path  int    true "ID участника"
// @Param       nonce query string true "Nonce из ссылки выпуска"
// @Success     200 {file} binary
// @Failure     400 {object} APIError
// @Failure     403 {object} APIError
// @Failure     404 {object} APIError
// @Failure     500 {object} APIError
// @Router      /wallet/apple/{user} [get]
func IssueApple(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return issue(c, svc, models.PlatformApple, c.Param("user"), c.QueryParam("nonce"))
	}
}

// IssueGoogle — редирект на страницу сохранения Google Wallet
// @Summary     Сохранить пропуск в Google Wallet
// @Tags        wallet
// @Param       user  path  int    true "ID участника"
// @Param       nonce query string true "Nonce из ссылки выпуска"
// @Success     302
// @Failure     400 {object} APIError
// @Failure     403 {object} APIError
// @Failure     404 {object} APIError
// @Failure     500 {object} APIError
// @Router      /wallet/google/{user} [get]
func IssueGoogle(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return issue(c, svc, models.PlatformGoogle, c.Param("user"), c.QueryParam("nonce"))
	}
}

func issue(c echo.Context, svc WalletService, platform models.Platform, rawUser, nonce string) error {
	userID, err := dto.ParseUserID(rawUser)
	if err != nil {
		return writeError(c, err)
	}
	art, err := svc.Issue(c.Request().Context(), platform, userID, nonce)
	if err != nil {
		return writeError(c, err)
	}
	if platform == models.PlatformGoogle {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return c.Redirect(http.StatusFound, art.RedirectURL)
	}
	return writePass(c, art)
}

// Verify — страница проверки отсканированного QR
// @Summary     Проверка членства по токену
// @Tags        wallet
// @Produce     html
// @Param       token query string true "Токен проверки из QR"
// @Success     200 {string} string "HTML-фрагмент"
// @Failure     400 {object} APIError
// @Failure     403 {string} string "HTML-фрагмент со статусом Expired/Invalid"
// @Router      /wallet/verify [get]
func Verify(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return verifyPage(c, svc, c.QueryParam("token"))
	}
}

func verifyPage(c echo.Context, svc WalletService, token string) error {
	if strings.TrimSpace(token) == "" {
		return writeError(c, dto.ErrTokenRequired)
	}
	view, err := svc.Verify(c.Request().Context(), token)
	if view == nil {
		view = &service.VerificationView{Status: models.StatusInvalid}
	}
	status, msg := service.HTTPStatus(err)
	page := views.Verification{
		Name:      view.Name,
		MemberID:  view.MemberID,
		Status:    view.Status,
		IssuedAt:  view.IssuedAt,
		ExpiresAt: view.ExpiresAt,
	}
	if err != nil {
		page.Message = msg
	}
	return render(c, status, views.VerificationPage(page))
}

// Buttons — HTML-фрагмент с кнопками «добавить в кошелёк»
// @Summary     Кнопки выпуска для участника
// @Tags        wallet
// @Produce     html
// @Param       user path int true "ID участника"
// @Success     200 {string} string "HTML-фрагмент"
// @Failure     400 {object} APIError
// @Failure     404 {object} APIError
// @Router      /wallet/buttons/{user} [get]
func Buttons(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		links, err := memberLinks(c, svc)
		if err != nil {
			return writeError(c, err)
		}
		return render(c, http.StatusOK, views.ButtonsFragment(views.Buttons{Apple: links.Apple, Google: links.Google}))
	}
}

// Links — ссылки выпуска в JSON
// @Summary     Ссылки выпуска для участника
// @Tags        wallet
// @Produce     json
// @Param       user path int true "ID участника"
// @Success     200 {object} dto.LinksResponse
// @Failure     400 {object} APIError
// @Failure     404 {object} APIError
// @Router      /api/v1/wallet/links/{user} [get]
func Links(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		links, err := memberLinks(c, svc)
		if err != nil {
			return writeError(c, err)
		}
		return writeJSON(c, http.StatusOK, dto.FromLinks(links))
	}
}

// VerifyJSON — проверка токена для сканеров
// @Summary     Проверка членства (JSON)
// @Tags        wallet
// @Produce     json
// @Param       token query string true "Токен проверки из QR"
// @Success     200 {object} dto.VerificationResponse
// @Failure     400 {object} APIError
// @Failure     403 {object} APIError
// @Failure     404 {object} APIError
// @Router      /api/v1/wallet/verify [get]
func VerifyJSON(svc WalletService) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if strings.TrimSpace(token) == "" {
			return writeError(c, dto.ErrTokenRequired)
		}
		view, err := svc.Verify(c.Request().Context(), token)
		if err != nil {
			return writeError(c, err)
		}
		return writeJSON(c, http.StatusOK, dto.FromVerificationView(view))
	}
}

func memberLinks(c echo.Context, svc WalletService) (*service.WalletLinks, error) {
	userID, err := dto.ParseUserID(c.Param("user"))
	if err != nil {
		return nil, err
	}
	return svc.Links(c.Request().Context(), userID)
}
