/*
Package x contains the standard extensions of loom.

Extensions implement common functionality (Handler, Decorator,
Initializer) and are combined together to construct an application.
This package holds the authentication abstraction shared by all of
them, the sub-packages hold the extensions themselves.
*/
package x
