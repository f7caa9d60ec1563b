package domain

import "errors"

// ErrTaskNotFound is returned when a task name is not in the catalog.
var ErrTaskNotFound = errors.New("task not found")

// ErrProhibitedTask is returned for tasks that cannot be priced up front.
var ErrProhibitedTask = errors.New("task not supported")

// ErrPolicyNotFound is returned when no pricing policy has been stored.
var ErrPolicyNotFound = errors.New("pricing policy not found")

// InputKind tells how a task reads its request body.
type InputKind int

const (
	// InputJSON tasks take a JSON body with an "inputs" field.
	InputJSON InputKind = iota
	// InputBinary tasks take raw image or audio bytes.
	InputBinary
)

// Task describes an inference task exposed under /v1.
type Task struct {
	Name         string
	Description  string
	InputType    string
	OutputType   string
	DefaultModel string
	Input        InputKind
	// RequiredToken must appear in the "inputs" text when set.
	RequiredToken string
	// BinaryOutput tasks return raw media instead of JSON.
	BinaryOutput bool
}

// ProhibitedTask is a task the gateway refuses because its cost is unpredictable.
type ProhibitedTask struct {
	Name   string `json:"task"`
	Reason string `json:"reason"`
}

// InferenceRequest is a single call to an upstream model.
type InferenceRequest struct {
	Model       string
	Task        string
	ContentType string
	Body        []byte
}

// InferenceResponse is the upstream answer, passed through unchanged.
type InferenceResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the upstream call succeeded.
func (r *InferenceResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RouteRequest contains the path parameters of a task call.
type RouteRequest struct {
	Task  string
	Org   string
	Model string
}
