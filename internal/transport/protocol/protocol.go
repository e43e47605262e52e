// Package protocol defines the JSON request/response payloads shared by the
// TCP and HTTP transports.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// Response status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Client-facing error messages.
const (
	MsgNoSentence     = "No sentence were given!"
	MsgInvalidPayload = "Invalid request payload"
	MsgNoPrediction   = "Unable to classify the sentence"
	MsgInternal       = "Internal server error"
)

// ErrInvalidPayload signals a request body that is not a JSON object with a string sentence.
var ErrInvalidPayload = errors.New("invalid request payload")

// Request is the classification request payload.
type Request struct {
	Sentence *string `json:"sentence"`
}

// OKResponse is the success payload. Field order is the wire order.
type OKResponse struct {
	Status     string   `json:"status"`
	Sentence   string   `json:"sentence"`
	Tag        string   `json:"tag"`
	Responses  []string `json:"responses"`
	Confidence string   `json:"confidence"`
}

// ErrorResponse is the failure payload.
type ErrorResponse struct {
	Status   string `json:"status"`
	ErrorMsg string `json:"error_msg"`
}

// DecodeRequest parses a request body and returns its non-blank sentence.
func DecodeRequest(data []byte) (string, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if req.Sentence == nil || strings.TrimSpace(*req.Sentence) == "" {
		return "", domain.ErrNoSentence
	}
	return *req.Sentence, nil
}

// Success builds the success payload for a prediction.
func Success(sentence string, p domain.Prediction) OKResponse {
	responses := p.Responses
	if responses == nil {
		responses = []string{}
	}
	return OKResponse{
		Status:     StatusOK,
		Sentence:   sentence,
		Tag:        p.Tag,
		Responses:  responses,
		Confidence: FormatConfidence(p.Confidence),
	}
}

// Failure builds the error payload for err.
func Failure(err error) ErrorResponse {
	return ErrorResponse{Status: StatusError, ErrorMsg: MessageFor(err)}
}

// MessageFor maps an error onto the message sent to clients. Unknown errors
// never leak their text.
func MessageFor(err error) string {
	var tl *domain.TokenLimitError
	switch {
	case errors.Is(err, domain.ErrNoSentence):
		return MsgNoSentence
	case errors.Is(err, ErrInvalidPayload):
		return MsgInvalidPayload
	case errors.As(err, &tl):
		return fmt.Sprintf("The sentence is longer than the maximum token length (%d)", tl.Limit)
	case errors.Is(err, domain.ErrNoPrediction):
		return MsgNoPrediction
	default:
		return MsgInternal
	}
}

// FormatConfidence renders f in its shortest decimal form, always with a decimal point.
func FormatConfidence(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Marshal encodes a payload. Payload types contain only strings, so it cannot fail.
func Marshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(ErrorResponse{Status: StatusError, ErrorMsg: MsgInternal})
	}
	return data
}
