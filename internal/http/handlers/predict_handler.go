// Prediction HTTP handler.
//
//   - POST /predict   proxy one classification request to the inference endpoint
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spamzero-backend/internal/services"
)

// PredictRequest documents the conventional request shape. Any JSON object
// is accepted; the text is read from the first of message, text or inputs
// holding a string, and the whole body is forwarded when none does.
type PredictRequest struct {
	Message string `json:"message,omitempty" example:"Congratulations, you won a prize!"`
	Text    string `json:"text,omitempty"`
	Inputs  string `json:"inputs,omitempty"`
}

// PredictResponse wraps the upstream result.
type PredictResponse struct {
	OK     bool `json:"ok"     example:"true"`
	Result any  `json:"result" swaggertype:"object"`
}

const (
	msgPredictNotConfigured = "Missing HUGGING_FACE_URI in environment"
	msgPredictInvalidJSON   = "Invalid JSON body"
	msgPredictNotObject     = "Request body must be a JSON object"
	msgPredictUpstream      = "Hugging Face prediction request failed"
	msgPredictFailed        = "Failed to fetch prediction"
)

// Predict godoc
// @ID          predict
// @Summary     Classify a message
// @Description Forwards {"message": text} (or the original body when no text field is present) to the configured inference endpoint and returns its answer.
// @Tags        Prediction
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.PredictRequest  true  "Text to classify"
//
// @Success     200  {object}  handlers.PredictResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or non-JSON body, or not an object"
// @Failure     500  {object}  handlers.ErrorResponse  "Endpoint not configured, or network/parse failure"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure (the upstream status is returned as-is)"
// @Router      /predict [post]
func (h *Handlers) Predict(c *gin.Context) {
	if err := h.predictSvc.Ready(); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeNotConfigured, msgPredictNotConfigured)
		return
	}

	raw, body, err := readJSON(c)
	if err != nil {
		failBody(c, err, msgPredictInvalidJSON)
		return
	}
	// Arrays are forwarded like objects; scalars and null are not.
	switch body.(type) {
	case map[string]any, []any:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgPredictNotObject)
		return
	}

	result, err := h.predictSvc.Classify(c.Request.Context(), services.ExtractText(body), raw)
	if err != nil {
		var ue *services.UpstreamError
		switch {
		case errors.As(err, &ue):
			failDetails(c, ue.Status, ErrCodeUpstream, msgPredictUpstream, ue.Status, ue.Details)
		case errors.Is(err, services.ErrNotConfigured):
			fail(c, http.StatusInternalServerError, ErrCodeNotConfigured, msgPredictNotConfigured)
		default:
			failDetails(c, http.StatusInternalServerError, ErrCodePredictFailed, msgPredictFailed, 0, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, PredictResponse{OK: true, Result: result})
}
