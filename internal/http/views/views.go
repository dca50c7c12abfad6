// Package views — HTML-фрагменты, которые встраиваются в страницы сайта
package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

const dateLayout = "2006-01-02 15:04 MST"

// Verification — данные страницы проверки
type Verification struct {
	Name      string
	MemberID  string
	Status    models.VerificationStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Message — пояснение для статусов expired/invalid
	Message string
}

// Buttons — ссылки «добавить в кошелёк»
type Buttons struct {
	Apple  string
	Google string
}

// VerificationPage рендерит карточку проверки членства
func VerificationPage(v Verification) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<section class="wallet-verify wallet-verify--%s">`, templ.EscapeString(strings.ToLower(string(v.Status))))
		p.printf(`<h2 class="wallet-verify__status">%s</h2>`, templ.EscapeString(statusLabel(v.Status)))
		if v.Name != "" {
			p.printf(`<p class="wallet-verify__name">%s</p>`, templ.EscapeString(v.Name))
		}
		if v.MemberID != "" {
			p.printf(`<p class="wallet-verify__member">Member ID: <code>%s</code></p>`, templ.EscapeString(v.MemberID))
		}
		if !v.IssuedAt.IsZero() {
			p.printf(`<p class="wallet-verify__issued">Issued: %s</p>`, templ.EscapeString(v.IssuedAt.UTC().Format(dateLayout)))
		}
		if !v.ExpiresAt.IsZero() {
			p.printf(`<p class="wallet-verify__expires">Valid until: %s</p>`, templ.EscapeString(v.ExpiresAt.UTC().Format(dateLayout)))
		}
		if v.Message != "" {
			p.printf(`<p class="wallet-verify__message">%s</p>`, templ.EscapeString(v.Message))
		}
		p.printf(`</section>`)
		return p.err
	})
}

// ButtonsFragment рендерит обе кнопки выпуска
func ButtonsFragment(b Buttons) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<div class="wallet-buttons">`)
		p.printf(`<a class="wallet-buttons__apple" href="%s">Add to Apple Wallet</a>`, href(b.Apple))
		p.printf(`<a class="wallet-buttons__google" href="%s">Add to Google Wallet</a>`, href(b.Google))
		p.printf(`</div>`)
		return p.err
	})
}

// href — значение атрибута ссылки: templ.URL отсекает небезопасные схемы, затем экранирование
func href(u string) string {
	return templ.EscapeString(string(templ.URL(u)))
}

func statusLabel(s models.VerificationStatus) string {
	switch s {
	case models.StatusValid:
		return "Valid membership"
	case models.StatusExpired:
		return "Membership pass expired"
	default:
		return "Invalid membership pass"
	}
}

// printer запоминает первую ошибку записи
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
