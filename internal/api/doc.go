// Package api implements the Hyperliquid REST client.
//
// All market-data reads go through a single POST endpoint (/info) with a
// JSON body of the form {"type": <operation>, ...params}. The client issues
// exactly one request per call and never retries internally; retry policy
// belongs to the caller.
//
// The wire types in this package are shared with the WebSocket feed, whose
// payloads use the same shapes.
package api
