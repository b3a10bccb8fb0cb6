package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func vectorsOf(n, size int) []embeddingData {
	data := make([]embeddingData, n)
	for i := range data {
		data[i] = embeddingData{Index: i, Embedding: make([]float64, size)}
	}
	return data
}

func writeJSON(w http.ResponseWriter, data []embeddingData) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(embeddingsResponse{Data: data})
}

func TestClient_Embed(t *testing.T) {
	tests := []struct {
		name       string
		texts      []string
		dimension  int
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantErr    bool
		wantCount  int
	}{
		{
			name:      "successful embedding",
			texts:     []string{"Hello", "World"},
			dimension: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("Authorization = %q, want Bearer test-key", got)
				}
				writeJSON(w, vectorsOf(2, 768))
			},
			wantCount: 2,
		},
		{
			name:       "empty input",
			texts:      []string{},
			dimension:  768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {},
			wantErr:    true,
		},
		{
			name:      "wrong embedding count",
			texts:     []string{"Hello", "World"},
			dimension: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, vectorsOf(1, 768))
			},
			wantErr: true,
		},
		{
			name:      "wrong vector size",
			texts:     []string{"Hello"},
			dimension: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, vectorsOf(1, 512))
			},
			wantErr: true,
		},
		{
			name:      "server error",
			texts:     []string{"Hello"},
			dimension: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
		{
			name:      "malformed body",
			texts:     []string{"Hello"},
			dimension: 3,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model", tt.dimension)
			vectors, err := client.Embed(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Error("Embed() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Embed() unexpected error: %v", err)
			}
			if len(vectors) != tt.wantCount {
				t.Errorf("Embed() returned %d vectors, want %d", len(vectors), tt.wantCount)
			}
			for i, vec := range vectors {
				if len(vec) != tt.dimension {
					t.Errorf("Embed() vector[%d] size = %d, want %d", i, len(vec), tt.dimension)
				}
			}
		})
	}
}

func TestClient_Embed_EmptyInput(t *testing.T) {
	_, err := NewClient("http://unused", "", "m", 3).Embed(context.Background(), nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Embed(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestClient_Embed_OrdersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []embeddingData{
			{Index: 1, Embedding: []float64{2.5}},
			{Index: 0, Embedding: []float64{1.5}},
		})
	}))
	defer server.Close()

	vectors, err := NewClient(server.URL, "", "m", 1).Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if vectors[0][0] != float32(1.5) || vectors[1][0] != float32(2.5) {
		t.Errorf("Embed() = %v, want [[1.5] [2.5]]", vectors)
	}
}

func TestClient_Embed_Batches(t *testing.T) {
	var requests []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization should be omitted without a key, got %q", got)
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		requests = append(requests, len(req.Input))
		writeJSON(w, vectorsOf(len(req.Input), 2))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "", "m", 2)
	client.batchSize = 2

	vectors, err := client.Embed(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 5 {
		t.Errorf("Embed() returned %d vectors, want 5", len(vectors))
	}
	if len(requests) != 3 || requests[0] != 2 || requests[2] != 1 {
		t.Errorf("batch sizes = %v, want [2 2 1]", requests)
	}
}
