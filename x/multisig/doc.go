/*
Package multisig implements threshold governed accounts.

A multisig is an ordered set of owners and an approval threshold. Any owner
may propose an instruction, owners approve it and once the threshold is
reached anyone may execute it. An executed instruction runs with the
multisig's derived authority, a condition no single key can produce.

Owners and threshold are changed only by executing a SetOwnersMsg proposal.
Every such change bumps the owner set version, which invalidates all
proposals created under the previous owner set. Invalidation is lazy: old
proposals are never rewritten, approve and execute compare versions.
*/
package multisig
