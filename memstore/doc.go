// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package memstore is an in-process voting.Store.

Campaigns live in a map guarded by a read/write lock; each campaign carries
its own mutex. RecordVote runs the revision check, quota count, tally
increment and ledger append under that one mutex, so concurrent votes on a
campaign serialize and votes on different campaigns do not contend.

Used with DATABASE_TYPE=memory and by the engine tests:

	svc := voting.NewService(memstore.New())

Nothing is persisted across restarts.
*/
package memstore
