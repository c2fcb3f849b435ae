package ner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/docgrid/doc-parser/internal/extract"
)

// maxResponseBytes bounds how much of a service response we will read.
const maxResponseBytes = 8 << 20

type serviceRequest struct {
	Text string `json:"text"`
}

type serviceEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type serviceResponse struct {
	Entities []serviceEntity `json:"entities"`
}

// ServiceClient delegates recognition to an external HTTP NER service. The
// service receives {"text": ...} and answers {"entities": [{"text", "label"}]}.
type ServiceClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewServiceClient builds a client for the given endpoint. A zero timeout
// defaults to five seconds.
func NewServiceClient(url string, timeout time.Duration, logger *slog.Logger) *ServiceClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ServiceClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FindEntities posts the text to the service. Transport and decode failures
// are logged and reported as no entities, so a flapping service degrades
// extraction instead of failing it.
func (c *ServiceClient) FindEntities(text string) []extract.Entity {
	if text == "" {
		return nil
	}
	ents, err := c.recognize(text)
	if err != nil {
		c.logger.Warn("ner service call failed", "url", c.url, "error", err)
		return nil
	}
	return ents
}

func (c *ServiceClient) recognize(text string) ([]extract.Entity, error) {
	body, err := json.Marshal(serviceRequest{Text: text})
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var decoded serviceResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, err
	}

	out := make([]extract.Entity, 0, len(decoded.Entities))
	for _, e := range decoded.Entities {
		if e.Text == "" || e.Label == "" {
			continue
		}
		out = append(out, extract.Entity{Text: e.Text, Label: e.Label})
	}
	return out, nil
}
