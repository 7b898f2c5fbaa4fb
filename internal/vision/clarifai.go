package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Recognizer is the narrow contract with the image recognition collaborator:
// given a public image URL, return the names of the ingredients it shows.
type Recognizer interface {
	Tags(ctx context.Context, imageURL string) ([]string, error)
}

const (
	defaultBaseURL = "https://api.clarifai.com"

	// successStatusCode is Clarifai's API-level success code.
	successStatusCode = 10000

	// minConfidence is the cutoff below which concept guesses are discarded.
	minConfidence = 0.5
)

// ClarifaiClient implements Recognizer against the Clarifai v2 predict API
// using their food recognition model.
type ClarifaiClient struct {
	apiKey  string
	modelID string
	baseURL string
	http    *http.Client
}

var _ Recognizer = (*ClarifaiClient)(nil)

// NewClarifai builds a Clarifai-backed recognizer.
func NewClarifai(apiKey, modelID string) *ClarifaiClient {
	return &ClarifaiClient{
		apiKey:  apiKey,
		modelID: modelID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type predictRequest struct {
	Inputs []predictInput `json:"inputs"`
}

type predictInput struct {
	Data struct {
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"data"`
}

type predictResponse struct {
	Status struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	} `json:"status"`
	Outputs []struct {
		Data struct {
			Concepts []struct {
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

// Tags sends the image URL to the food model and returns every concept
// recognized with at least minConfidence.
func (c *ClarifaiClient) Tags(ctx context.Context, imageURL string) ([]string, error) {
	var reqBody predictRequest
	var input predictInput
	input.Data.Image.URL = imageURL
	reqBody.Inputs = []predictInput{input}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/models/%s/outputs", c.baseURL, c.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clarifai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clarifai request failed with status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode clarifai response: %w", err)
	}
	if parsed.Status.Code != successStatusCode {
		return nil, fmt.Errorf("clarifai predict failed: %s", parsed.Status.Description)
	}
	if len(parsed.Outputs) == 0 {
		return nil, nil
	}

	var tags []string
	for _, concept := range parsed.Outputs[0].Data.Concepts {
		if concept.Value >= minConfidence {
			tags = append(tags, concept.Name)
		}
	}
	return tags, nil
}
