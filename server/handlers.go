package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-intake/logger"
	"contact-intake/models"
	"contact-intake/service"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                "healthy",
		"service":               "contact-intake",
		"version":               Version,
		"environment":           s.config.App.Env,
		"mail_provider":         s.config.Mail.Provider,
		"credential_configured": s.config.Credential() != "",
	})
}

func (s *Server) submitContact(c *gin.Context) {
	ctx := c.Request.Context()
	if limit := s.config.Server.MaxBodyBytes; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	raw, err := c.GetRawData()
	if err != nil {
		logger.From(ctx).Warn("failed to read contact request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: service.MsgMalformed})
		return
	}

	res, err := s.contact.Submit(ctx, raw)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Message})
			return
		}
		logger.From(ctx).Error("unexpected error processing contact form", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: service.MsgInternal})
		return
	}

	c.JSON(http.StatusOK, models.ContactResponse{Message: res.Message, Warning: res.Warning})
}

func (s *Server) contactPreflight(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
	c.Status(http.StatusNoContent)
}
