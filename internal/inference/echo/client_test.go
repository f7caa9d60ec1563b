package echo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/tollgate/internal/domain"
	"github.com/davidbz/tollgate/internal/inference/echo"
)

func TestClient_Infer(t *testing.T) {
	client := echo.NewClient()
	ctx := context.Background()

	tests := []struct {
		name     string
		req      *domain.InferenceRequest
		expected echo.Response
	}{
		{
			name: "json body is echoed with a token count",
			req: &domain.InferenceRequest{
				Model:       "acme/model",
				Task:        "summarization",
				ContentType: "application/json",
				Body:        []byte(`{"inputs": "hello there"}`),
			},
			expected: echo.Response{
				Model:       "acme/model",
				Task:        "summarization",
				ContentType: "application/json",
				Bytes:       25,
				Tokens:      3,
				Echo:        `{"inputs": "hello there"}`,
			},
		},
		{
			name: "binary body is only measured",
			req: &domain.InferenceRequest{
				Model:       "acme/vision",
				Task:        "image-classification",
				ContentType: "image/png",
				Body:        []byte{1, 2, 3, 4},
			},
			expected: echo.Response{
				Model:       "acme/vision",
				Task:        "image-classification",
				ContentType: "image/png",
				Bytes:       4,
				Tokens:      0,
				Echo:        "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Infer(ctx, tt.req)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, "application/json", resp.ContentType)

			var got echo.Response
			require.NoError(t, json.Unmarshal(resp.Body, &got))
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_Infer_Validation(t *testing.T) {
	client := echo.NewClient()

	_, err := client.Infer(context.Background(), nil)
	require.Error(t, err)

	_, err = client.Infer(context.Background(), &domain.InferenceRequest{Model: ""})
	require.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	require.Equal(t, "echo", echo.NewClient().Name())
}
