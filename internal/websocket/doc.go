// Package websocket streams regression run events to live subscribers.
//
// A Hub owns the set of connected clients and fans every published event
// out to them. Each Client runs a read pump, which only tracks liveness,
// and a write pump that delivers events and keeps the connection alive
// with pings. Slow clients whose buffer fills up are disconnected instead
// of slowing down publishers.
//
// Messages are JSON objects:
//
//	{"type":"run:completed","run_id":"…","data":{…},"timestamp":"…"}
package websocket
