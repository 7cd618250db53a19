// Package venue provides access to the exchange: instrument discovery,
// order books, positions, order entry and trade polling.
//
// The Exchange interface is the single collaborator injected into every
// engine component; the REST Client is the production implementation and
// tests substitute fakes. An optional WebSocket BookStream caches live
// order books so that book reads avoid a REST round-trip per decision.
package venue
