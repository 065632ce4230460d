/*
Package server implements the commands a node binary exposes: writing
the application state into a tendermint genesis file, validating it and
running the ABCI server.

The node is configured from a TOML file in the home directory. Every
value can be overridden by a LOOMD_ prefixed environment variable and
then by a command line flag.
*/
package server
