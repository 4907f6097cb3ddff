package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleRAGPostsQuery(t *testing.T) {
	t.Parallel()

	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"reply":"Product 42 is a speaker.","sources":[{"content":"doc","metadata":{"product_id":"42"}}]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client = client.WithHTTPClient(server.Client())

	got, err := client.HandleRAG(context.Background(), "product 42 description", "s1")
	if err != nil {
		t.Fatalf("HandleRAG() error = %v", err)
	}

	if body["query"] != "product 42 description" || body["session_id"] != "s1" {
		t.Fatalf("posted body = %v", body)
	}
	if got.Reply != "Product 42 is a speaker." {
		t.Fatalf("Reply = %q", got.Reply)
	}
	if len(got.Sources) != 1 || got.Sources[0].Metadata["product_id"] != "42" {
		t.Fatalf("Sources = %+v", got.Sources)
	}
}

func TestHandleRAGNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client = client.WithHTTPClient(server.Client())

	if _, err := client.HandleRAG(context.Background(), "q", "s1"); err == nil {
		t.Fatal("HandleRAG() error = nil, want status error")
	}
}
