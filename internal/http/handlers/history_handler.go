// History HTTP handlers.
//
// This file exposes REST endpoints for classification history:
//   - POST   /history               (save one record)
//   - GET    /history               (list, newest first)
//   - DELETE /history               (body {"id"} or ?all=true)
//   - DELETE /history/{id}          (path form of the single delete)
//   - GET    /history/stats         (spam/ham aggregation)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spamzero-backend/internal/services"
)

//
// DTOs
//

// SaveHistoryResponse is returned after a record was stored.
type SaveHistoryResponse struct {
	Message string `json:"message" example:"History saved"`
	ID      string `json:"id"      example:"66b1f0c2a4e5d3b2c1a09f87"`
}

// DeleteHistoryRequest is the JSON payload for deleting one record.
type DeleteHistoryRequest struct {
	ID string `json:"id" example:"66b1f0c2a4e5d3b2c1a09f87"`
}

// DeleteHistoryResponse reports how many records were removed.
type DeleteHistoryResponse struct {
	Message      string `json:"message"      example:"History item deleted"`
	DeletedCount int64  `json:"deletedCount" example:"1"`
}

// HistoryItem documents the shape of one listed record. Records are free-form
// JSON objects; the fields below are the conventional ones.
type HistoryItem struct {
	MongoID    string  `json:"_id"        example:"66b1f0c2a4e5d3b2c1a09f87"`
	ID         string  `json:"id"         example:"66b1f0c2a4e5d3b2c1a09f87"`
	Text       string  `json:"text"       example:"Congratulations, you won a prize!"`
	Prediction string  `json:"prediction" example:"spam"`
	Confidence float64 `json:"confidence" example:"0.97"`
	CreatedAt  string  `json:"createdAt"  example:"2025-08-01T12:00:00Z"`
}

const (
	msgHistorySaved       = "History saved"
	msgHistoryDeleted     = "History item deleted"
	msgAllHistoryDeleted  = "All history deleted"
	msgInvalidBody        = "Invalid request body"
	msgDeleteBodyRequired = "Provide a valid JSON body with id, or use ?all=true"
	msgMissingID          = "Missing history id"
	msgInvalidID          = "Invalid history id"
	msgNotFound           = "History item not found"
	msgSaveFailed         = "Failed to save history"
	msgFetchFailed        = "Failed to fetch history"
	msgDeleteFailed       = "Failed to delete history"
	msgBodyTooLarge       = "Request body too large"
)

//
// Handlers
//

// SaveHistory godoc
// @ID          saveHistory
// @Summary     Save a classification record
// @Description Stores an arbitrary JSON object together with a server-assigned id and createdAt. Client-supplied "_id", "id" and "createdAt" are replaced.
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       body  body  object  true  "History record"
//
// @Success     201  {object}  handlers.SaveHistoryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Body is not a JSON object"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /history [post]
func (h *Handlers) SaveHistory(c *gin.Context) {
	_, doc, err := readJSON(c)
	if err != nil {
		failBody(c, err, msgInvalidBody)
		return
	}

	id, err := h.historySvc.Insert(c.Request.Context(), doc)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, SaveHistoryResponse{Message: msgHistorySaved, ID: id})
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidBody)
	default:
		failStore(c, msgSaveFailed, err)
	}
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List classification history
// @Description Returns every stored record, most recent first.
// @Tags        History
// @Produce     json
//
// @Success     200  {array}   handlers.HistoryItem
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	items, err := h.historySvc.List(c.Request.Context())
	if err != nil {
		failStore(c, msgFetchFailed, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// DeleteHistory godoc
// @ID          deleteHistory
// @Summary     Delete one or all history records
// @Description With ?all=true removes every record. Otherwise the JSON body must carry the id of the record to remove.
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       all   query  bool                           false  "Delete every record"
// @Param       body  body   handlers.DeleteHistoryRequest  false  "Record to delete"
//
// @Success     200  {object}  handlers.DeleteHistoryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid body, missing or malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /history [delete]
func (h *Handlers) DeleteHistory(c *gin.Context) {
	if c.Query("all") == "true" {
		n, err := h.historySvc.DeleteAll(c.Request.Context())
		if err != nil {
			failStore(c, msgDeleteFailed, err)
			return
		}
		ok(c, http.StatusOK, DeleteHistoryResponse{Message: msgAllHistoryDeleted, DeletedCount: n})
		return
	}

	_, body, err := readJSON(c)
	if err != nil {
		failBody(c, err, msgDeleteBodyRequired)
		return
	}
	// A non-string or absent id reads as missing.
	var id string
	if m, isObj := body.(map[string]any); isObj {
		id, _ = m["id"].(string)
	}
	h.deleteOne(c, id)
}

// DeleteHistoryByID godoc
// @ID          deleteHistoryByID
// @Summary     Delete one history record
// @Tags        History
// @Produce     json
//
// @Param       id  path  string  true  "Record id (24 hex chars)"
//
// @Success     200  {object}  handlers.DeleteHistoryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /history/{id} [delete]
func (h *Handlers) DeleteHistoryByID(c *gin.Context) {
	h.deleteOne(c, c.Param("id"))
}

func (h *Handlers) deleteOne(c *gin.Context, id string) {
	n, err := h.historySvc.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, DeleteHistoryResponse{Message: msgHistoryDeleted, DeletedCount: n})
	case errors.Is(err, services.ErrMissingID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMissingID)
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidID)
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, msgNotFound)
	default:
		failStore(c, msgDeleteFailed, err)
	}
}

// HistoryStats godoc
// @ID          historyStats
// @Summary     Spam/ham statistics
// @Description Counts and percentage shares over the current history. A record is spam when its prediction lower-cases to "spam".
// @Tags        History
// @Produce     json
//
// @Success     200  {object}  domain.Stats
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /history/stats [get]
func (h *Handlers) HistoryStats(c *gin.Context) {
	st, err := h.historySvc.Stats(c.Request.Context())
	if err != nil {
		failStore(c, msgFetchFailed, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// failStore writes a 500 carrying the store error text as details.
func failStore(c *gin.Context, msg string, err error) {
	failDetails(c, http.StatusInternalServerError, ErrCodeStoreUnavailable, msg, 0, err.Error())
}

// failBody maps a body read/decode error onto 413 or 400.
func failBody(c *gin.Context, err error, msg string) {
	if errors.Is(err, errBodyTooLarge) {
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, msgBodyTooLarge)
		return
	}
	fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg)
}

