package handler

import (
	"net/http"

	"github.com/repospector/repospector/shared/api"
	"github.com/repospector/repospector/shared/domain"
	mw "github.com/repospector/repospector/shared/middleware"
	"github.com/repospector/repospector/shared/utils"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Login(r.Context(), domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, mw.SessionCookie(accessToken, int(h.cfg.JwtTTL().Seconds()), h.cfg.Public.SecureCookies))
	utils.WriteJSON(w, http.StatusOK, api.LoginResponse{Message: "Logged in successfully", AccessToken: accessToken})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, mw.SessionCookie("", 0, h.cfg.Public.SecureCookies))
	utils.WriteMessage(w, http.StatusOK, "Logged out successfully")
}
