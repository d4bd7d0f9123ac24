// Package services defines shared utilities consumed by the command layer,
// the batch workflow and the TMDB integration.
//
// Key responsibilities:
//   - Context helpers that stamp command names, movie keys, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent batch summary kinds (timeout, network, storage, ...).
//
// Use these helpers when wiring new commands so error handling and
// observability stay uniform across the tool.
package services
