/*
Package quorum defines the interfaces shared by every part of the ledger
application: storage, transactions, handlers, decorators and the conditions
used to authenticate them.

We pass context through context.Context between app, middleware and
handlers. Common keys (block height, chain id, logger) are declared here.
Each extension, such as sigs or multisig, adds its own keys to enrich the
context with the conditions it vouches for.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, to avoid lower-level
modules overwriting the value (eg. height, chain id).
*/
package quorum
