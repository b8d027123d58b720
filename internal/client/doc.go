// Package client is an HTTP client for the SmartThermo configuration API
// served by the device firmware and by 'smartthermo serve'.
//
// Requests that fail at the network level, or with a gateway status, are
// retried with exponential backoff. Errors reported by the API itself
// (unknown path, rejected value) are returned immediately as *APIError:
//
//	c := client.NewClient("http://192.168.4.1:8080")
//	if _, err := c.Set("thermostat.target", 65); client.IsRejected(err) {
//	    // value outside the device's limits
//	}
package client
