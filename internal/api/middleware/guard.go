package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradeshift/trading-shell/internal/api/metrics"
	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// Decider decides whether a navigation to view may proceed.
type Decider interface {
	Decide(ctx context.Context, view domain.View) domain.Decision
}

// Guard redirects requests for protected views to the login view unless a
// credential is stored. Page loads get 302; other methods get 303 so the
// client follows up with a GET.
func Guard(d Decider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			view := domain.ViewFromPath(c.Request().URL.Path)
			decision := d.Decide(c.Request().Context(), view)
			if decision.Allowed {
				metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
				c.Set("view", view)
				return next(c)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("redirected").Inc()
			code := http.StatusFound
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead:
			default:
				code = http.StatusSeeOther
			}
			return c.Redirect(code, decision.RedirectTo)
		}
	}
}
