// Package server exposes the configuration store over HTTP.
//
// The API mirrors the endpoints of the thermometer firmware so companion
// tools can read and change settings while the setup menu is not in use.
//
// # Endpoints
//
//	GET  /api/config           whole document
//	GET  /api/config/{path}    {"value": ...} for a dotted path
//	PUT  /api/config/{path}    body {"value": ...}; existing paths only
//	POST /api/config/save      write the backing file
//	POST /api/config/reload    discard unsaved changes
//	GET  /api/status           version, dirty flag, thermostat, WiFi mode
//	GET  /api/target           thermostat setpoint and active flag
//	POST /api/target           body {"target": n, "active": b}, either optional
//	POST /api/wifi/save        body {"ssid", "password"}; selects and saves
//	GET  /ws                   change feed
//
// Store errors map to status codes: unknown path 404, rejected value 400,
// file changed under unsaved edits 409, other file errors 500. Error bodies are {"error": msg, "type": kind}.
//
// # Change Feed
//
// A WebSocket client first receives a "snapshot" event carrying the whole
// document, then one event per store change:
//
//	{"type":"change","path":"thermostat.target","value":60}
//	{"type":"saved","saved":true}
//	{"type":"reloaded","reloaded":true}
//
// When the file watcher is wired through ReportReload, a file edit that
// could not be applied is sent as well. "conflict" means the store kept
// its unsaved changes; "error" carries any other reload failure:
//
//	{"type":"conflict","error":"..."}
//
// Messages sent by clients are ignored. Clients that fall behind are
// disconnected.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 8080}, store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Start blocks until SIGINT/SIGTERM or a serve error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
package server
