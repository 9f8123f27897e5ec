// Package stream implements the live market-data client: a single
// WebSocket connection multiplexing any number of logical subscriptions.
//
// The pieces:
//
//   - Key/registry: the typed subscription table, the single source of
//     truth for what should be subscribed right now. Entries survive
//     transport loss and die only on explicit unsubscribe or Disconnect.
//   - Router: parses inbound frames, derives the subscription key from the
//     payload, and dispatches to the matching callback. Bad frames are
//     dropped, never thrown; a panicking callback cannot take down the
//     read loop or starve other subscribers.
//   - Reconnector: linear backoff with a hard attempt cap; after the cap a
//     terminal failure is surfaced exactly once on Stream.Fatal().
//   - Stream: the facade UI surfaces talk to. Also supports a polling
//     delivery mode that feeds the same callbacks from REST fetches.
package stream
