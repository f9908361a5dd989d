package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func embeddingHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input any    `json:"input"`
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var inputs []string
		switch v := req.Input.(type) {
		case string:
			inputs = []string{v}
		case []any:
			for _, s := range v {
				inputs = append(inputs, s.(string))
			}
		}

		type datum struct {
			Embedding []float64 `json:"embedding"`
			Index     int       `json:"index"`
			Object    string    `json:"object"`
		}
		resp := struct {
			Object string  `json:"object"`
			Data   []datum `json:"data"`
			Model  string  `json:"model"`
		}{Object: "list", Model: req.Model}

		for i, in := range inputs {
			resp.Data = append(resp.Data, datum{
				Embedding: []float64{float64(len(in)), float64(i)},
				Index:     i,
				Object:    "embedding",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestEmbedderEmbed(t *testing.T) {
	srv := httptest.NewServer(embeddingHandler(t))
	defer srv.Close()

	e := NewEmbedder(srv.URL, "mxbai-embed-large", 5*time.Second, 0)
	vectors, err := e.Embed(context.Background(), []string{"hello", "hi"})
	if err != nil {
		t.Fatal(err)
	}

	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 5 || vectors[1][0] != 2 {
		t.Errorf("vectors out of order: %v", vectors)
	}
}

func TestEmbedderEmptyInput(t *testing.T) {
	e := NewEmbedder("http://localhost:1", "mxbai-embed-large", time.Second, 0)
	vectors, err := e.Embed(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if vectors != nil {
		t.Errorf("expected nil for empty input, got %v", vectors)
	}
}

func TestEmbedderDimensions(t *testing.T) {
	cases := map[string]int{
		"mxbai-embed-large": 1024,
		"nomic-embed-text":  768,
		"all-minilm":        384,
		"unknown-model":     768,
	}
	for model, want := range cases {
		e := NewEmbedder("", model, time.Second, 0)
		if e.Dimension() != want {
			t.Errorf("%s: dimension = %d, want %d", model, e.Dimension(), want)
		}
	}
}

func TestChatGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "phi3",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": "the answer"},
			}},
		})
	}))
	defer srv.Close()

	c := NewChat(srv.URL, "phi3", 5*time.Second, 0)
	answer, err := c.Generate(context.Background(), "what?")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q", answer)
	}
}

func TestChatRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-2",
			"object": "chat.completion",
			"model":  "phi3",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": "recovered"},
			}},
		})
	}))
	defer srv.Close()

	c := NewChat(srv.URL, "phi3", 5*time.Second, 3)
	answer, err := c.Generate(context.Background(), "ping")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "recovered" {
		t.Errorf("answer = %q", answer)
	}
	if calls.Load() < 2 {
		t.Errorf("expected a retry, got %d calls", calls.Load())
	}
}

func TestChatUnreachableServer(t *testing.T) {
	c := NewChat("http://127.0.0.1:1", "phi3", time.Second, 0)
	_, err := c.Generate(context.Background(), "ping")
	if err == nil {
		t.Error("expected error for unreachable server")
	}
}
