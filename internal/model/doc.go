// Package model defines the normalized market-data records shared across
// the terminal: order books, trades, candles, and asset metadata.
//
// All types here are venue-agnostic in shape; the api and stream packages
// own the translation from Hyperliquid wire formats.
package model
