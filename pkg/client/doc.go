// Package client is a Go client for the intentd TCP classification socket.
//
//	c := client.New("localhost:5000", client.WithTimeout(5*time.Second))
//	answer, err := c.Ask(ctx, "hello there")
//	if err != nil { ... }
//	fmt.Println(answer.Tag, answer.Confidence, answer.Responses)
//
// Every call opens a fresh connection, writes the request, half-closes and
// reads the response until the server closes the connection.
package client
