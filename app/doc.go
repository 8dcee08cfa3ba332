/*
Package app contains the glue between the quorum extensions and the ledger.

A Router dispatches messages to the handlers registered by the extensions,
a QueryRouter does the same for abci queries. ChainDecorators wraps the
router with the middleware every transaction passes through. StoreApp and
BaseApp implement abci.Application on top of a CommitKVStore.
*/
package app
