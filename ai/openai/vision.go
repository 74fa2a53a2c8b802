// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/ticketgraph/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxImageBytes caps the size of a downloaded screenshot. Anything larger is
// rejected rather than inlined into a prompt.
const maxImageBytes = 20 << 20

// ImageAnalyzer implements ai.ImageAnalyzer using OpenAI-compatible vision
// APIs. Image references are fetched over HTTP and inlined as base64 data
// URLs, so the model endpoint never needs network access to the ticket
// system.
type ImageAnalyzer struct {
	client llms.Model
	http   *http.Client
	logger *slog.Logger
}

// newImageAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newImageAnalyzer(config *ai.Config) (*ImageAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Vision runs on the enricher model: screenshot transcription needs the
	// stronger model far more than classification does.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.EnricherModel),
	)
	if err != nil {
		return nil, err
	}

	return &ImageAnalyzer{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default().With("component", "openai-vision"),
	}, nil
}

// NewImageAnalyzer creates a new image analyzer using the provided
// configuration.
//
// Returns ai.ImageAnalyzer interface to enforce abstraction.
func NewImageAnalyzer(config *ai.Config) (ai.ImageAnalyzer, error) {
	return newImageAnalyzer(config)
}

// AnalyzeImage fetches the referenced image and asks the vision model to
// describe it following the instruction template. Returns the model's text
// description, or an error if the image cannot be fetched or analyzed.
func (a *ImageAnalyzer) AnalyzeImage(ctx context.Context, ref string, instruction string) (string, error) {
	dataURL, err := a.resolveImage(ctx, ref)
	if err != nil {
		a.logger.Warn("failed to resolve image", "ref", ref, "err", err)
		return "", err
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(instruction),
				llms.ImageURLPart(dataURL),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		a.logger.Error("vision analysis failed", "ref", ref, "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errNoChoices
	}

	description := strings.TrimSpace(response.Choices[0].Content)
	a.logger.Debug("analyzed image", "ref", ref, "length", len(description))
	return description, nil
}

// resolveImage turns an image reference into a base64 data URL. References
// that are already data URLs pass through unchanged.
func (a *ImageAnalyzer) resolveImage(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "data:") {
		return ref, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
