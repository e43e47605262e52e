package client

import (
	"net"
	"time"
)

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithTimeout bounds a whole request (dial, write, read). Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) {
		c.timeout = d
	})
}

// WithDialer replaces the default net.Dialer.
func WithDialer(d *net.Dialer) Option {
	return optionFunc(func(c *Client) {
		c.dialer = d
	})
}
