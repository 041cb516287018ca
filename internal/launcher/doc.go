// Package launcher starts worker processes and hands back an owning handle.
//
// Full process-group semantics are only available on POSIX platforms, where
// the child is placed into its own group at launch and the group id can be
// signalled as a unit. Windows has no comparable grouping primitive for this
// use case; the handle instead carries an inheritable event object that the
// worker can watch for interrupt requests, since the only signal Windows can
// deliver to another process is termination.
//
// A handle owns exactly one OS process. Its final exit status is collected by
// a single reaper, after which the handle must not be signalled again.
package launcher
