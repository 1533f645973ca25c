package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// maxWebhookBodyBytes bounds the payload read before signature verification.
const maxWebhookBodyBytes = 1 << 20

// WebhookHandler receives payment provider events. It is unauthenticated; the
// signature header is the only credential.
type WebhookHandler struct {
	processUC processWebhookUseCase
	logger    logger.Interface
}

func NewWebhookHandler(processUC processWebhookUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		processUC: processUC,
		logger:    logger,
	}
}

// HandleStripeWebhook acknowledges processed, duplicate and ignored events
// with 200. Failures return 500 so the provider redelivers.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := c.GetRawData()
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := h.processUC.Execute(c.Request.Context(), billingusecases.ProcessWebhookCommand{
		Payload:         payload,
		SignatureHeader: c.GetHeader(constants.HeaderStripeSignature),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
