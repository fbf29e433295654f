package voyage_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"intent-router/pkg/voyage"
)

func TestVoyageClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-voyage-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid key", "type": "auth"}}`))
			return
		}

		var req voyage.EmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if len(req.Input) > 0 && req.Input[0] == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if req.Model != "custom-model" || req.InputType != voyage.InputTypeQuery || req.OutputDimension != 3 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Out of order on purpose.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"data": [
				{"embedding": [0.4, 0.5, 0.6], "index": 1},
				{"embedding": [0.1, 0.2, 0.3], "index": 0}
			]
		}`))
	}))
	defer ts.Close()

	client, err := voyage.New("test-voyage-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.WithBaseURL(ts.URL).WithModel("custom-model").WithOutputDimension(3)

	t.Run("Success Flow", func(t *testing.T) {
		emb, err := client.Embed(context.Background(), []string{"Hello", "world"}, voyage.InputTypeQuery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(emb) != 2 || len(emb[0]) != 3 {
			t.Fatalf("expected 2 embeds with 3 dims, got len=%d", len(emb))
		}
		if emb[0][0] != 0.1 || emb[1][0] != 0.4 {
			t.Errorf("embeddings not placed by index: %v", emb)
		}
	})

	t.Run("Server Error Flow", func(t *testing.T) {
		_, err := client.Embed(context.Background(), []string{"cause_500"}, voyage.InputTypeQuery)
		var apiErr *voyage.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
			t.Fatalf("expected APIError 500, got %v", err)
		}
	})

	t.Run("Unauthorized Error Flow", func(t *testing.T) {
		badClient, _ := voyage.New("bad-key")
		badClient.WithBaseURL(ts.URL)
		_, err := badClient.Embed(context.Background(), []string{"Hello world"}, "")
		var apiErr *voyage.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected APIError 401, got %v", err)
		}
		if apiErr.Message != "invalid key" {
			t.Errorf("expected API message to be decoded, got %q", apiErr.Message)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		if _, err := client.Embed(context.Background(), nil, ""); err == nil {
			t.Fatal("expected error for empty input")
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		if _, err := voyage.New(""); err == nil {
			t.Fatal("expected error for missing API key")
		}
	})
}
