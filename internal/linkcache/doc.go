// Package linkcache persists shortened URLs in SQLite so repeated builds do
// not spend shortening quota on links they have already resolved.
//
// The cache is the only state that survives between builds. It only decides
// which short URL a page shows, never which pages are produced. A schema
// version row guards against opening a database written by an incompatible
// release; callers clear the cache when ErrSchemaMismatch is reported.
package linkcache
