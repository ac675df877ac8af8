package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"flowershop/internal/middleware"
)

const operatorTokenTTL = 12 * time.Hour

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// OperatorLogin exchanges the operator password for a signed token.
func (a *App) OperatorLogin(w http.ResponseWriter, r *http.Request) {
	if !a.Config.OperatorAuthEnabled() {
		a.error(w, http.StatusNotFound, "Operator login is disabled", "")
		return
	}
	isJSON := false
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "application/json" {
		isJSON = true
	}

	var req loginRequest
	if isJSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			a.renderLogin(w, r, http.StatusBadRequest, "Invalid form submission")
			return
		}
		req.Password = r.PostFormValue("password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.Config.OperatorPasswordHash), []byte(req.Password)); err != nil {
		a.log(r).Warn().Msg("operator login rejected")
		if isJSON {
			a.error(w, http.StatusUnauthorized, "Invalid credentials", "")
			return
		}
		a.renderLogin(w, r, http.StatusUnauthorized, "Invalid password")
		return
	}

	now := a.now()
	token, err := middleware.SignOperatorToken(a.Config.OperatorJWTSecret, operatorTokenTTL, now)
	if err != nil {
		a.log(r).Error().Err(err).Msg("sign operator token failed")
		a.error(w, http.StatusInternalServerError, "Failed to sign token", "")
		return
	}
	a.log(r).Info().Msg("operator logged in")
	if isJSON {
		a.json(w, http.StatusOK, loginResponse{Token: token})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.OperatorCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(operatorTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, "/enterprise", http.StatusSeeOther)
}
