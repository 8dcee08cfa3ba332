/*
Package upgrade keeps a registry of deployed programs, each controlled by an
upgrade authority.

A program is registered with the hash of its code. Only the current
authority may replace the code (which bumps the version) or hand the
program over to another authority. Since any address can be an authority,
a program can be owned by the derived authority of a multisig and then
only be changed through an executed proposal.
*/
package upgrade
