// Package tcp serves classification requests over raw TCP.
//
// Each connection carries exactly one request. The client writes a JSON
// object and half-closes its write side; the server reads until EOF, so there
// is no delimiter or length prefix. The server writes one JSON response and
// closes the connection. A peer that never half-closes holds its goroutine
// until the optional read timeout fires.
package tcp
