package controllers

import (
	"net/http"

	"journal-management-api/config"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// EmailDeliveryWebhook receives delivery callbacks from the outbound
// mail provider and updates the correspondence record identified by
// webhook_id. Unknown webhook ids get 404 so the provider stops
// retrying them.
func EmailDeliveryWebhook(c *gin.Context) {
	var event services.DeliveryEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook_id and event_type are required"})
		return
	}

	svc := services.NewCorrespondenceService(config.DB)
	if err := svc.HandleDeliveryEvent(event); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Delivery event recorded"})
}
