package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/otel"
)

// WriteJsonResponse writes the envelope used by the staff facing endpoints. The status code is
// taken from body["statusCode"] and defaults to 200.
func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	statusCode := http.StatusOK
	if v, ok := body[KeyStatusCode].(int); ok {
		statusCode = v
	}
	for k, v := range header {
		w.Header().Add(k, v)
	}
	WriteJson(c, w, statusCode, body)
}

// WriteJson writes body as is. Storefront endpoints use it because their payload shape is part of
// the public contract.
func WriteJson(c context.Context, w http.ResponseWriter, statusCode int, body any) {
	c, span := otel.Tracer.Start(c, "WriteJson")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJson").Logger()

	w.Header().Set(HeaderContentType, HeaderValueJson)
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msgf("failed encoding response body with error=%s", err.Error())
		return
	}
}

func WriteFailed(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		KeyStatus:     StatusFailed,
		KeyStatusCode: statusCode,
		KeyMessage:    message,
	})
}
