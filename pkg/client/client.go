package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

const defaultTimeout = 10 * time.Second

// ErrUnexpectedResponse is returned when the server reply cannot be decoded.
var ErrUnexpectedResponse = errors.New("unexpected response")

// ServerError is a request the server answered with status "error".
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return "intentd: " + e.Message }

// Answer is a successful classification.
type Answer struct {
	Sentence   string
	Tag        string
	Responses  []string
	Confidence float64
}

// Client talks to one intentd TCP endpoint. It is safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration
	dialer  *net.Dialer
}

// New creates a Client for addr (host:port).
func New(addr string, opts ...Option) *Client {
	c := &Client{addr: addr, timeout: defaultTimeout, dialer: &net.Dialer{}}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

type request struct {
	Sentence string `json:"sentence"`
}

type response struct {
	Status     string   `json:"status"`
	Sentence   string   `json:"sentence"`
	Tag        string   `json:"tag"`
	Responses  []string `json:"responses"`
	Confidence string   `json:"confidence"`
	ErrorMsg   string   `json:"error_msg"`
}

// Ask classifies sentence. Server-side rejections are returned as *ServerError.
func (c *Client) Ask(ctx context.Context, sentence string) (Answer, error) {
	raw, err := c.Do(ctx, mustJSON(request{Sentence: sentence}))
	if err != nil {
		return Answer{}, err
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Answer{}, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	switch resp.Status {
	case "ok":
	case "error":
		return Answer{}, &ServerError{Message: resp.ErrorMsg}
	default:
		return Answer{}, fmt.Errorf("%w: status %q", ErrUnexpectedResponse, resp.Status)
	}

	conf, err := strconv.ParseFloat(resp.Confidence, 64)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: confidence %q", ErrUnexpectedResponse, resp.Confidence)
	}
	return Answer{
		Sentence:   resp.Sentence,
		Tag:        resp.Tag,
		Responses:  resp.Responses,
		Confidence: conf,
	}, nil
}

// Do sends a raw payload and returns the raw reply.
func (c *Client) Do(ctx context.Context, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	if hc, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := hc.CloseWrite(); err != nil {
			return nil, fmt.Errorf("half-close: %w", err)
		}
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
