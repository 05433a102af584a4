package controllers

import (
	"errors"
	"net/http"

	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentActor builds the explicit actor passed into workflow services from
// the values AuthMiddleware stored on the request context.
func currentActor(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("email"); ok {
		if email, ok := v.(string); ok {
			actor.Email = email
		}
	}
	if v, ok := c.Get("roleID"); ok {
		if role, ok := v.(int); ok {
			actor.RoleID = role
		}
	}
	return actor
}

// respondServiceError maps service errors onto the uniform HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvitationExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has expired"})
	case errors.Is(err, services.ErrInvitationClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already responded to"})
	case errors.Is(err, services.ErrDuplicateAssignment):
		c.JSON(http.StatusConflict, gin.H{"error": "Reviewer is already assigned to this paper"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
