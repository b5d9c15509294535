package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vmachado/erp-vestuario/internal/adapter/api/dto"
	"github.com/vmachado/erp-vestuario/pkg/apperror"
	"github.com/vmachado/erp-vestuario/pkg/logger"
)

// responderErro traduz a taxonomia de erros do núcleo para status HTTP e
// devolve o envelope padrão com mensagem e sugestão de correção
func responderErro(ctx *gin.Context, log logger.Logger, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		log.Error("erro interno", "error", err, "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(http.StatusInternalServerError, "erro interno", ""))
		return
	}

	status := statusPorKind(appErr.Kind)
	ctx.JSON(status, dto.NewErrorResponse(status, appErr.Message, appErr.Solution))
}

func statusPorKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindInsufficientStock, apperror.KindOverpayment, apperror.KindInsufficientCredit:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
