package handlers

import (
	"errors"
	"net/http"

	"canchas_backend/internal/services"
	"canchas_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// serviceErrorMappings is checked in order; the first errors.Is match wins.
var serviceErrorMappings = []errorMapping{
	{services.ErrInvalidTimeFormat, http.StatusBadRequest, utils.ErrCodeInvalidTimeFormat},
	{services.ErrPastDate, http.StatusBadRequest, utils.ErrCodePastDate},
	{services.ErrPastTime, http.StatusBadRequest, utils.ErrCodePastTime},
	{services.ErrFutureYear, http.StatusBadRequest, utils.ErrCodeFutureYear},
	{services.ErrInvalidSportConfiguration, http.StatusBadRequest, utils.ErrCodeInvalidSportConfiguration},
	{services.ErrValidation, http.StatusBadRequest, utils.ErrCodeValidationFailed},
	{services.ErrEntityNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
	{services.ErrSlotAlreadyBooked, http.StatusConflict, utils.ErrCodeSlotAlreadyBooked},
	{services.ErrClientDoubleBooked, http.StatusConflict, utils.ErrCodeClientDoubleBooked},
	{services.ErrCourtDoubleBooked, http.StatusConflict, utils.ErrCodeCourtDoubleBooked},
	{services.ErrCourtNameTaken, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrDNITaken, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrEmailTaken, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrEntityInUse, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrInsufficientStock, http.StatusConflict, utils.ErrCodeInsufficientStock},
	{services.ErrEquipmentNameTaken, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrEquipmentAlreadyAssigned, http.StatusConflict, utils.ErrCodeConflict},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, utils.ErrCodeUnauthorized},
}

// respondServiceError maps a service error onto the standard error body.
// Unknown errors are logged and reported as 500 without their detail.
func respondServiceError(c *gin.Context, err error, op string) {
	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				utils.LogError(err, op)
			} else {
				utils.LogDebug(op+": request rejected", map[string]interface{}{"error": err.Error(), "code": m.code})
			}
			utils.RespondWithError(c, utils.NewAPIError(m.status, m.code, m.target.Error(), err.Error()))
			return
		}
	}
	utils.LogError(err, op)
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError,
		"An unexpected error occurred.", "Internal error"))
}

// respondBindError reports a request that failed JSON or query binding.
func respondBindError(c *gin.Context, err error, op string) {
	utils.LogDebug(op+": failed to bind request", map[string]interface{}{"error": err.Error()})
	utils.RespondValidationFailed(c, err.Error())
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid "+name+" format.", "must be a positive integer"))
		return 0, false
	}
	return id, true
}
