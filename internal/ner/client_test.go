package ner

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgrid/doc-parser/internal/common"
)

func TestServiceClientFindEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "some document text", req.Text)

		json.NewEncoder(w).Encode(serviceResponse{Entities: []serviceEntity{
			{Text: "Acme Corp", Label: "ORG"},
			{Text: "", Label: "ORG"},
			{Text: "skip", Label: ""},
		}})
	}))
	defer srv.Close()

	c := NewServiceClient(srv.URL, time.Second, nil)
	ents := c.FindEntities("some document text")
	require.Len(t, ents, 1)
	assert.Equal(t, "Acme Corp", ents[0].Text)
	assert.Equal(t, "ORG", ents[0].Label)
}

func TestServiceClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewServiceClient(srv.URL, time.Second, nil)
	assert.Nil(t, c.FindEntities("text"))
}

func TestServiceClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewServiceClient(srv.URL, time.Second, nil)
	assert.Nil(t, c.FindEntities("text"))
}

func TestServiceClientEmptyText(t *testing.T) {
	c := NewServiceClient("http://127.0.0.1:1", time.Second, nil)
	assert.Nil(t, c.FindEntities(""))
}

func TestNewBackendSelection(t *testing.T) {
	assert.Nil(t, New(common.NERConfig{Backend: BackendOff}, nil))

	rec := New(common.NERConfig{Backend: BackendRules}, nil)
	assert.IsType(t, &RuleRecognizer{}, rec)

	rec = New(common.NERConfig{Backend: BackendHTTP, ServiceURL: "http://ner.local/v1"}, nil)
	assert.IsType(t, &ServiceClient{}, rec)

	// http without a URL falls back to rules.
	rec = New(common.NERConfig{Backend: BackendHTTP}, nil)
	assert.IsType(t, &RuleRecognizer{}, rec)
}
