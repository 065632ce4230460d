/*
Package app contains standard implementations of a number of
components. It is the glue between the ABCI interface of tendermint
and the handlers and decorators of the loom extensions.

BaseApp dispatches transactions through a Handler, usually a Router
wrapped in a chain of Decorators. StoreApp holds the committed state
and answers queries.
*/
package app
