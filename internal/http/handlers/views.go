package handlers

import (
	"bytes"
	"net/http"

	"flowershop/internal/web"
)

func (a *App) ChatView(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := a.Views.Chat(&buf); err != nil {
		a.log(r).Error().Err(err).Msg("render chat view failed")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (a *App) EnterpriseView(w http.ResponseWriter, r *http.Request) {
	list, err := a.Orders.List(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list orders for enterprise view failed")
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	page := web.EnterprisePage{
		Buckets:     web.Partition(list),
		AuthEnabled: a.Config.OperatorAuthEnabled(),
	}
	var buf bytes.Buffer
	if err := a.Views.Enterprise(&buf, page); err != nil {
		a.log(r).Error().Err(err).Msg("render enterprise view failed")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// LoginView is shown in place of the enterprise view when no operator token
// is present.
func (a *App) LoginView(w http.ResponseWriter, r *http.Request) {
	a.renderLogin(w, r, http.StatusUnauthorized, "")
}

func (a *App) renderLogin(w http.ResponseWriter, r *http.Request, code int, msg string) {
	var buf bytes.Buffer
	if err := a.Views.Login(&buf, web.LoginPage{Error: msg}); err != nil {
		a.log(r).Error().Err(err).Msg("render login view failed")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	writeHTML(w, code, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
