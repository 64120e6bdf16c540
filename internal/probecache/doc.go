// Package probecache persists audio probe results in SQLite so repeated
// prepare runs over unchanged corpora skip re-probing. Entries are keyed by
// absolute path plus file size and modification time; a file that changed on
// disk misses the cache and is probed again.
package probecache
