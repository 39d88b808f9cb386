package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"tg_garant/pkg/contextx"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// codedError — доменные ошибки, несущие код без обёртки failure.
type codedError interface {
	ErrorCode() failure.ErrorCode
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	var coded codedError
	if errors.As(err, &coded) {
		response.Code = coded.ErrorCode().String()
		response.Message = err.Error()
		JSON(ctx, w, statusForCode(coded.ErrorCode()), response)

		return
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case failure.IsUnauthorizedError(err):
		JSON(ctx, w, http.StatusUnauthorized, response)
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
		JSON(ctx, w, http.StatusForbidden, response)
	case failure.IsConflictError(err):
		JSON(ctx, w, http.StatusConflict, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

// statusForCode — HTTP-статусы для кодов доменных ошибок.
func statusForCode(code failure.ErrorCode) int {
	switch code {
	case errcodes.ValidationError,
		errcodes.InvalidWallet,
		errcodes.InvalidPrice,
		errcodes.InvalidRecipient,
		errcodes.InvalidSettleMethod,
		errcodes.InvalidDealID,
		errcodes.WalletRequired,
		errcodes.DraftIncomplete:
		return http.StatusBadRequest
	case errcodes.NotFound,
		errcodes.DealNotFound,
		errcodes.DealExpired,
		errcodes.DraftNotFound,
		errcodes.MemoUnavailable:
		return http.StatusNotFound
	case errcodes.Forbidden:
		return http.StatusForbidden
	case errcodes.DealConflict, errcodes.DealProcessing:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
