package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/pkg/email"
	"github.com/zachm/hooprun/internal/pkg/logger"
)

// EmailWorkerController receives delayed email jobs published to QStash
// and performs the actual send.
type EmailWorkerController struct {
	sender          email.Sender
	verifySignature bool
	signingKeys     []string
}

// NewEmailWorkerController creates a new EmailWorkerController. Signature
// verification is enabled in production and skipped in development, where
// requests come straight from local tooling.
func NewEmailWorkerController(sender email.Sender, verifySignature bool, currentSigningKey, nextSigningKey string) *EmailWorkerController {
	return &EmailWorkerController{
		sender:          sender,
		verifySignature: verifySignature,
		signingKeys:     []string{currentSigningKey, nextSigningKey},
	}
}

// HandleJob handles POST /api/email-worker
func (c *EmailWorkerController) HandleJob(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unreadable body"})
		return
	}

	if c.verifySignature {
		signature := ctx.GetHeader("Upstash-Signature")
		if err := email.VerifyQStashSignature(signature, body, c.signingKeys...); err != nil {
			logger.Warn().Err(err).Msg("Rejected email job with bad signature")
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid signature"})
			return
		}
	}

	var msg email.Message
	if err := json.Unmarshal(body, &msg); err != nil || len(msg.To) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid email job"})
		return
	}

	if err := c.sender.Send(ctx.Request.Context(), msg); err != nil {
		logger.Error().Err(err).Str("subject", msg.Subject).Msg("Email worker failed to send")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "send failed"})
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "sent"})
}
