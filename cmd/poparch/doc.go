// Package main hosts the poparch CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the library store,
// the importer, the TMDB resolver and the batch workflow. The command context
// centralizes configuration loading, logger setup and store access so each
// subcommand only deals with arguments and output.
package main
