// Package market maintains in-memory market state assembled from stream
// callbacks and REST snapshots. The Store is the single sink the terminal
// reads from; reconcilers in this package keep books normalized, trade
// tapes bounded, and candle series sorted as data arrives out of order.
package market
