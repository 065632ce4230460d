/*
Package orm stores typed entities in a key-value store.

The key space is split into buckets. A bucket holds entities of a single
type under their primary key, and keeps any number of secondary indexes
pointing back at those keys. Buckets and their indexes can be exposed to
clients through a loom.QueryRouter.
*/
package orm
