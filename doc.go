// Package serlyo is the composition root of the editorial planner.
//
// It wires the scheduling engine (pkg/planner) to a storage adapter
// (filesystem with optional git history, SQLite or memory) behind the
// core.Store port.
//
// Features:
//
//   - **Month Grid**: Sunday-first calendar grids annotated with fixed-date holidays.
//   - **Weekly Strategy**: per-weekday toggle and default format driving bulk generation.
//   - **Bulk Generation**: one planned post per free slot of a month, idempotent.
//   - **Lifecycle**: create, update, archive, restore and hard delete of posts.
//   - **Write-Through Storage**: every mutation is persisted before it returns.
//
// Usage:
//
//	p, err := serlyo.New(ctx, "./calendar",
//		serlyo.WithVersioning(true),
//		serlyo.WithLogger(logger),
//	)
//
//	created, err := p.GenerateForMonth(ctx, 2024, time.February)
package serlyo
