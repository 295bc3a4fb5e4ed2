package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mkamau/daraja-gateway/internal/domain/auth"
	"github.com/mkamau/daraja-gateway/internal/domain/payment"
	"github.com/mkamau/daraja-gateway/internal/usecase/submitpayment"
)

type Handler struct {
	submitUC *submitpayment.UseCase
	logger   *zap.Logger
}

func NewHandler(submitUC *submitpayment.UseCase, logger *zap.Logger) *Handler {
	return &Handler{
		submitUC: submitUC,
		logger:   logger,
	}
}

type PushRequest struct {
	PhoneNumber            string `json:"phoneNumber"`
	Amount                 int64  `json:"amount"`
	AccountReference       string `json:"accountReference"`
	TransactionDescription string `json:"transactionDescription"`
}

type PushResponse struct {
	Success             bool   `json:"success"`
	MerchantRequestID   string `json:"merchantRequestId,omitempty"`
	CheckoutRequestID   string `json:"checkoutRequestId,omitempty"`
	ResponseCode        string `json:"responseCode,omitempty"`
	ResponseDescription string `json:"responseDescription,omitempty"`
	CustomerMessage     string `json:"customerMessage,omitempty"`
	Error               string `json:"error,omitempty"`
	ErrorCode           string `json:"errorCode,omitempty"`
}

func (h *Handler) HandlePush(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, PushResponse{Error: "invalid json"})
		return
	}

	resp, err := h.submitUC.Execute(r.Context(), submitpayment.Request{
		PhoneNumber:            req.PhoneNumber,
		Amount:                 req.Amount,
		AccountReference:       req.AccountReference,
		TransactionDescription: req.TransactionDescription,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Business rejections land here too: the provider answered, the caller
	// branches on the response code.
	writeJSON(w, http.StatusOK, PushResponse{
		Success:             resp.Accepted,
		MerchantRequestID:   resp.MerchantRequestID,
		CheckoutRequestID:   resp.CheckoutRequestID,
		ResponseCode:        resp.ResponseCode,
		ResponseDescription: resp.ResponseDescription,
		CustomerMessage:     resp.CustomerMessage,
	})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *payment.ValidationError
	var authErr *auth.AuthenticationError
	var submissionErr *payment.SubmissionError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, PushResponse{Error: validationErr.Error()})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusBadGateway, PushResponse{Error: "provider authentication failed"})
	case errors.As(err, &submissionErr):
		msg := submissionErr.ErrorMessage
		if msg == "" {
			msg = "payment submission failed"
		}
		writeJSON(w, http.StatusBadGateway, PushResponse{Error: msg, ErrorCode: submissionErr.ErrorCode})
	default:
		h.logger.Error("push request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, PushResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
