/*
Package orm provides an easy to use db wrapper

Models are stored under a bucket prefix and are addressed by their
primary key. Sequences provide monotonic, big endian encoded keys so
that the byte order of the keys matches their numeric order.
*/
package orm
