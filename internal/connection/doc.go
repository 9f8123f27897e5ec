// Package connection implements the WebSocket transport.
//
// A Client owns exactly one socket to the venue. It exposes raw inbound
// frames and connection errors on channels; it never buffers outbound
// sends and never reconnects on its own. Reconnection policy lives in the
// stream package.
package connection
