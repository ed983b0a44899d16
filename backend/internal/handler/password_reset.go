package handler

import (
	"net/http"

	"github.com/repospector/repospector/shared/api"
	"github.com/repospector/repospector/shared/utils"
)

// forgotPasswordMessage is returned whether or not the account exists.
const forgotPasswordMessage = "If an account exists with this email, you will receive a password reset link."

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body api.ForgotPasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.passwordReset.Initiate(r.Context(), body.Email); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, forgotPasswordMessage)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body api.ResetPasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.passwordReset.Consume(r.Context(), body.Token, body.Password); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Password has been reset successfully")
}
