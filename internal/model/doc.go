// Package model defines shared data types used across the options quoter.
//
// Conventions:
//   - Prices: float64 in venue currency; always on the instrument's tick grid
//     when submitted
//   - Volumes: float64 (stock and option quotes use whole lots, the gamma
//     hedge submits fractional sizes)
//   - IDs: string for instruments and orders, uuid.UUID for trades
package model
