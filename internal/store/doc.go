// Package store provides abstractions and implementations for data
// persistence. It defines the interfaces the services depend on, the shared
// DBTX abstraction over connections and transactions, the RunInTransaction
// helper, and the sentinel errors store implementations map their backend's
// failures onto.
package store
