package http

import (
	"net/http"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
)

// ModelEndpoint is the pricing key of a /models/{org}/{model} request.
func ModelEndpoint(r *http.Request) string {
	return r.PathValue("org") + "/" + r.PathValue("model")
}

// HandleModel forwards the raw request body to the named model, mirroring
// the Hugging Face inference API.
func (h *Handler) HandleModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	model := ModelEndpoint(r)
	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	resp, err := h.inference.Infer(ctx, &domain.InferenceRequest{
		Model:       model,
		Task:        "",
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		logger.Error("model call failed", observability.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !resp.OK() {
		writeError(w, resp.StatusCode, string(resp.Body))
		return
	}

	writeUpstream(w, resp, "application/json")
}
