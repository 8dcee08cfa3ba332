/*
Package x contains the helpers shared by all extensions

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct an application.
Authentication is abstracted behind the Authenticator interface so
that handlers never depend on a concrete signature scheme.
*/
package x
