package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/gsantin/spesebot/internal/errors"
	"github.com/gsantin/spesebot/internal/expense"
)

func chatReply(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}, "finish_reason": "stop"},
		},
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	}, zap.NewNop())
}

func TestClient_Extract(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		fmt.Fprint(w, chatReply(`{"name":"Bar Centrale","day":12,"price":4.5,"primary_category":"Out","secondary_category":"Coffee"}`))
	})

	rec, err := client.Extract(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Bar Centrale", rec.Name)
	assert.Equal(t, 12, rec.Day)
	assert.Equal(t, "4.50", rec.Price.StringFixed(2))
	assert.Equal(t, expense.CategoryOut, rec.Primary)
	assert.Equal(t, "Coffee", rec.Secondary)
}

func TestClient_ExtractStringDay(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply(`{"name":"Esselunga","day":"7","price":"33,20","primary_category":"Groceries","secondary_category":"Weekly shop"}`))
	})

	// Quoted numbers are accepted; commas in the price normalize like
	// manual input.
	rec, err := client.Extract(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Day)
	assert.Equal(t, "33.20", rec.Price.StringFixed(2))
}

func TestClient_ExtractNotJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("Sorry, I cannot read this receipt."))
	})

	_, err := client.Extract(context.Background(), []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrExtractionFailed.Code, apperrors.GetCode(err))
}

func TestClient_ExtractBadCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply(`{"name":"Bar","day":12,"price":4.5,"primary_category":"Food","secondary_category":"Coffee"}`))
	})

	_, err := client.Extract(context.Background(), []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrExtractionFailed.Code, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "primary_category")
}

func TestClient_ExtractServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.Extract(context.Background(), []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrExtractorUnavailable.Code, apperrors.GetCode(err))
}

func TestClient_ExtractMissingField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply(`{"name":"Bar","day":12,"price":4.5,"primary_category":"Out"}`))
	})

	_, err := client.Extract(context.Background(), []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secondary_category")
}
