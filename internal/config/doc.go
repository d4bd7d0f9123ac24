// Package config loads, normalizes, and validates poparch configuration data.
//
// It supplies defaults rooted in the XDG base directories, expands user paths
// (including tilde shortcuts), reads TOML files, and honours environment
// fallbacks such as TMDB_API_KEY (optionally provided through a .env file in
// the working directory). A missing API key is not a configuration error:
// offline commands keep working and lookups report the key as missing.
//
// Save writes the file back atomically so `config set-key` and
// `config logging` never leave a truncated file behind.
package config
