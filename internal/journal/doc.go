// Package journal persists observed fills and per-cycle aggregate
// exposures to Postgres.
//
// Recording never blocks the trading loop: rows land in a growable
// in-memory buffer and a background goroutine batches them into the
// database with ON CONFLICT DO NOTHING inserts. The journal is
// optional; the quoter trades the same without one.
//
// Expected tables:
//
//	CREATE TABLE fills (
//	    trade_id      TEXT PRIMARY KEY,
//	    instrument_id TEXT NOT NULL,
//	    price         DOUBLE PRECISION NOT NULL,
//	    volume        DOUBLE PRECISION NOT NULL,
//	    side          TEXT NOT NULL,
//	    executed_at   BIGINT NOT NULL, -- microseconds
//	    recorded_at   BIGINT NOT NULL, -- microseconds
//	    instance_id   TEXT NOT NULL
//	);
//
//	CREATE TABLE exposures (
//	    instance_id TEXT NOT NULL,
//	    stage       TEXT NOT NULL,
//	    value       DOUBLE PRECISION NOT NULL,
//	    measured_at BIGINT NOT NULL, -- microseconds
//	    PRIMARY KEY (instance_id, stage, measured_at)
//	);
package journal
