// Package client is a Go client for the file store HTTP API.
//
//	c := client.New("http://localhost:8080")
//	if err := c.Create(ctx, "notes.txt", "hola"); err != nil {
//		var apiErr *client.APIError
//		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
//			// already stored
//		}
//	}
package client
