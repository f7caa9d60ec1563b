package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/observability"
	"github.com/davidbz/tollgate/internal/task"
)

const (
	prohibitedTaskMessage = "This task has unpredictable output costs and is not supported. " +
		"Only tasks with fixed, predictable pricing are available."
	octetStream      = "application/octet-stream"
	defaultImageType = "image/png"
)

type taskInfo struct {
	Task         string `json:"task"`
	Endpoint     string `json:"endpoint"`
	Description  string `json:"description"`
	InputType    string `json:"inputType"`
	OutputType   string `json:"outputType"`
	DefaultModel string `json:"defaultModel"`
}

type taskListResponse struct {
	Tasks           []taskInfo              `json:"tasks"`
	ProhibitedTasks []domain.ProhibitedTask `json:"prohibitedTasks"`
}

type taskRefusal struct {
	Error          string   `json:"error"`
	Task           string   `json:"task"`
	Reason         string   `json:"reason,omitempty"`
	Message        string   `json:"message"`
	SupportedTasks []string `json:"supportedTasks"`
}

// TaskEndpoint is the pricing key of a task request: the model resolved by TaskGuard.
func TaskEndpoint(r *http.Request) string {
	return observability.GetModel(r.Context())
}

// HandleListTasks lists supported and prohibited tasks.
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks := h.tasks.List(ctx)
	infos := make([]taskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, taskInfo{
			Task:         t.Name,
			Endpoint:     "/v1/" + t.Name,
			Description:  t.Description,
			InputType:    t.InputType,
			OutputType:   t.OutputType,
			DefaultModel: t.DefaultModel,
		})
	}

	writeJSON(w, http.StatusOK, taskListResponse{
		Tasks:           infos,
		ProhibitedTasks: h.tasks.Prohibited(ctx),
	})
}

// TaskGuard resolves the task and model before payment is requested.
// Prohibited tasks get 403 and unknown tasks 404, so nobody is asked to pay
// for a call that cannot run.
func (h *Handler) TaskGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := r.PathValue("task")

		model, err := h.router.Route(ctx, &domain.RouteRequest{
			Task:  name,
			Org:   r.PathValue("org"),
			Model: r.PathValue("model"),
		})
		switch {
		case errors.Is(err, domain.ErrProhibitedTask):
			reason, _ := h.tasks.ProhibitedReason(ctx, name)
			writeJSON(w, http.StatusForbidden, taskRefusal{
				Error:          "Task not supported",
				Task:           name,
				Reason:         reason,
				Message:        prohibitedTaskMessage,
				SupportedTasks: h.supportedTaskNames(r),
			})
			return
		case errors.Is(err, domain.ErrTaskNotFound):
			writeJSON(w, http.StatusNotFound, taskRefusal{
				Error:          "Task not found",
				Task:           name,
				Reason:         "",
				Message:        fmt.Sprintf("Unknown task %q. See GET /v1/tasks.", name),
				SupportedTasks: h.supportedTaskNames(r),
			})
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx = observability.WithTask(ctx, name)
		ctx = observability.WithModel(ctx, model)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandleTask runs a task call once payment has been verified.
func (h *Handler) HandleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	t, err := h.tasks.Get(ctx, observability.GetTask(ctx))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	model := observability.GetModel(ctx)

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var resp *domain.InferenceResponse
	switch {
	case t.Input == domain.InputBinary:
		req, msg := binaryTaskRequest(t, model, r, body)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		resp, err = h.inference.Infer(ctx, req)

	case t.Name == task.Embeddings:
		inputs, single, msg := embeddingInputs(body)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		resp, err = h.inference.Embed(ctx, model, inputs, single)

	default:
		if msg := validateJSONTask(t, body); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		resp, err = h.inference.Infer(ctx, &domain.InferenceRequest{
			Model:       model,
			Task:        t.Name,
			ContentType: "application/json",
			Body:        body,
		})
	}

	if err != nil {
		logger.Error("task call failed", observability.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !resp.OK() {
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("inference API error: %d - %s", resp.StatusCode, string(resp.Body)))
		return
	}

	fallback := "application/json"
	if t.BinaryOutput {
		fallback = defaultImageType
	}
	writeUpstream(w, resp, fallback)
}

func (h *Handler) supportedTaskNames(r *http.Request) []string {
	tasks := h.tasks.List(r.Context())
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name)
	}
	return names
}

func binaryTaskRequest(t domain.Task, model string, r *http.Request, body []byte) (*domain.InferenceRequest, string) {
	if len(body) == 0 {
		return nil, fmt.Sprintf("Missing %s data in request body", mediaKind(t))
	}

	if t.Name == task.ImageToImage {
		// The image-to-image pipeline takes the image base64-encoded in JSON.
		payload := map[string]interface{}{
			"inputs": base64.StdEncoding.EncodeToString(body),
		}
		prompt := r.Header.Get("X-Prompt")
		if prompt == "" {
			prompt = r.URL.Query().Get("prompt")
		}
		if prompt != "" {
			payload["parameters"] = map[string]string{"prompt": prompt}
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err.Error()
		}
		return &domain.InferenceRequest{Model: model, Task: t.Name, ContentType: "application/json", Body: encoded}, ""
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "audio/") {
		contentType = octetStream
	}
	return &domain.InferenceRequest{Model: model, Task: t.Name, ContentType: contentType, Body: body}, ""
}

func mediaKind(t domain.Task) string {
	if strings.Contains(t.InputType, "audio") {
		return "audio"
	}
	return "image"
}

// validateJSONTask checks the "inputs" field. Missing, null, false, zero and
// empty-string inputs are rejected.
func validateJSONTask(t domain.Task, body []byte) string {
	inputs, msg := rawInputs(body)
	if msg != "" {
		return msg
	}

	if t.RequiredToken != "" {
		var text string
		if err := json.Unmarshal(inputs, &text); err != nil || !strings.Contains(text, t.RequiredToken) {
			return fmt.Sprintf("Input must contain %s token", t.RequiredToken)
		}
	}
	return ""
}

func embeddingInputs(body []byte) ([]string, bool, string) {
	inputs, msg := rawInputs(body)
	if msg != "" {
		return nil, false, msg
	}

	var single string
	if err := json.Unmarshal(inputs, &single); err == nil {
		return []string{single}, true, ""
	}

	var many []string
	if err := json.Unmarshal(inputs, &many); err != nil || len(many) == 0 {
		return nil, false, "'inputs' must be a string or a non-empty array of strings"
	}
	return many, false, ""
}

func rawInputs(body []byte) (json.RawMessage, string) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "Invalid JSON body"
	}

	inputs := bytes.TrimSpace(payload["inputs"])
	switch string(inputs) {
	case "", "null", "false", "0", `""`:
		return nil, "Missing 'inputs' field"
	}
	return inputs, ""
}
