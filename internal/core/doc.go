// Package core imports the national road-name address registry into
// Postgres and serves searches against the loaded table.
//
// # Import Flow
//
// An [Importer] run walks these phases, each published through
// [metrics.Metrics.SetPhase]:
//
//  1. Resolve the configured text encoding ([ResolveEncoding])
//  2. Take the cross-process advisory lock ([AdvisoryLocker]); a held lock is a skip
//  3. Ensure tables, indexes and the import state table ([EnsureSchema])
//  4. Skip when the month is already completed ([StateStore.Completed])
//  5. Truncate the shadow table and download the monthly archive ([Downloader])
//  6. Build the road dictionary ([BuildRoadIndex]) and stream every building file
//     through [Transform] into a [BatchLoader]
//  7. Verify the shadow table is non-empty, rebuild its indexes and swap
//     generations in one transaction
//
// Any failure after the state row is written marks the month failed, so the
// next run retries it.
//
// # Generations
//
// Three tables hold the three generations: addresses (current),
// addresses_next (shadow) and addresses_prev (previous). Readers only see
// the current table, and the swap is atomic.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]:
//
//   - IMP001-IMP006: Import errors (lock, empty load, encoding, archive, download)
//   - QRY001-QRY002: Lookup errors (blank query, unknown month)
//   - DB004-DB007: Database connection errors
//   - REQ001-REQ002: Cancelled or timed out requests
package core
