package handler

import (
	"errors"
	"net/http"

	"lab-quality-monitor/internal/logger"
	"lab-quality-monitor/internal/middleware"
	appErrors "lab-quality-monitor/pkg/errors"
	"lab-quality-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.CodeValidation:
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Error())
			return
		case appErrors.CodeNotFound:
			utils.ErrorResponse(c, http.StatusNotFound, appErr.Message)
			return
		case appErrors.CodeConflict:
			utils.ErrorResponse(c, http.StatusConflict, appErr.Message)
			return
		}
	}

	requestID := middleware.GetRequestID(c)
	logger.Error("Internal server error",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}
