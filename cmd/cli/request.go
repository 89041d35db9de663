package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// apiRequest performs an authenticated call and decodes the JSON response.
// Non-2xx responses surface the API's message when one is present.
func apiRequest(method, path string) (map[string]interface{}, []byte, error) {
	req, err := http.NewRequest(method, apiURL+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg, ok := result["message"].(string); ok {
			return nil, nil, fmt.Errorf("API error: %s", msg)
		}
		return nil, nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return result, body, nil
}
