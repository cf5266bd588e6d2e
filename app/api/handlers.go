package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kivotos-dev/fanhub/app/cfg"
	"github.com/kivotos-dev/fanhub/app/database"
	"github.com/kivotos-dev/fanhub/app/sync"
)

type Handler struct {
	subRepo  database.SubscriptionRepository
	workRepo database.WorkRepository
	syncer   *sync.Syncer
}

func NewHandler(subRepo database.SubscriptionRepository, workRepo database.WorkRepository,
	syncer *sync.Syncer) *Handler {
	return &Handler{
		subRepo:  subRepo,
		workRepo: workRepo,
		syncer:   syncer,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"version":   cfg.Get().Version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if subCount, err := h.subRepo.GetCount(); err == nil {
		health["subscriptions"] = subCount
	}
	if workCount, err := h.workRepo.GetCount(); err == nil {
		health["works"] = workCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListWorks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	works, err := h.workRepo.GetPublished(pageSize, (page-1)*pageSize)
	if err != nil {
		slog.Error("Database error", "operation", "get_published_works", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]workResponse, 0, len(works))
	for _, work := range works {
		responses = append(responses, newWorkResponse(work))
	}

	c.JSON(http.StatusOK, gin.H{
		"works":    responses,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (h *Handler) ListSubscriptions(c *gin.Context) {
	subs, err := h.subRepo.GetAll()
	if err != nil {
		slog.Error("Database error", "operation", "get_subscriptions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, newSubscriptionResponse(sub))
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": responses,
		"total":         len(responses),
	})
}

func (h *Handler) CreateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	existing, err := h.subRepo.GetByUID(req.UID)
	if err != nil {
		slog.Error("Database error", "operation", "get_subscription_by_uid", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Subscription with this uid already exists"})
		return
	}

	sub := subscriptionFromRequest(req)
	created, err := h.subRepo.Create(sub)
	if err != nil {
		slog.Error("Database error", "operation", "create_subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, newSubscriptionResponse(*created))
}

func (h *Handler) GetSubscription(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newSubscriptionResponse(*sub))
}

func (h *Handler) UpdateSubscription(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated := subscriptionFromRequest(req)
	if err := h.subRepo.Update(sub.ID, updated); err != nil {
		slog.Error("Database error", "operation", "update_subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	fresh, err := h.subRepo.GetByID(sub.ID)
	if err != nil || fresh == nil {
		slog.Error("Database error", "operation", "get_subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, newSubscriptionResponse(*fresh))
}

func (h *Handler) DeleteSubscription(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	if err := h.subRepo.Delete(sub.ID); err != nil {
		slog.Error("Database error", "operation", "delete_subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) SyncOne(c *gin.Context) {
	sub, ok := h.loadSubscription(c)
	if !ok {
		return
	}

	result := h.syncer.SyncSubscription(c.Request.Context(), *sub)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Sync completed, %d new works imported", result.Created),
		"created": result.Created,
		"skipped": result.Skipped,
		"errors":  result.Errors,
	})
}

func (h *Handler) SyncAll(c *gin.Context) {
	result, err := h.syncer.SyncAll(c.Request.Context())
	if err != nil {
		slog.Error("Fleet sync failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sync failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Sync completed, %d subscriptions processed, %d new works imported", result.Total, result.Created),
		"total":   result.Total,
		"created": result.Created,
		"skipped": result.Skipped,
		"errors":  result.Errors,
	})
}

func (h *Handler) loadSubscription(c *gin.Context) (*database.Subscription, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing subscription id"})
		return nil, false
	}

	sub, err := h.subRepo.GetByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_subscription", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return nil, false
	}

	return sub, true
}

func subscriptionFromRequest(req subscriptionRequest) database.Subscription {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	nature := req.DefaultNature
	if nature == "" {
		nature = "fanmade"
	}

	return database.Subscription{
		UID:                 req.UID,
		UpName:              req.UpName,
		IsActive:            isActive,
		AutoPublishKeywords: req.AutoPublishKeywords,
		DefaultNature:       nature,
	}
}
