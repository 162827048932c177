// Package lars registers shell commands as named services and delegates
// their execution to a terminal-multiplexer backend.
//
// The two central types are the Store, which owns the durable service
// registry, and the Runner interface, which abstracts the session backend:
//
//	store, err := lars.DefaultStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	svc := lars.NewService("web", "python -m http.server")
//	if err := store.Add(svc); err != nil {
//	    log.Fatal(err)
//	}
//
//	runner, err := lars.NewRunner(svc.Runner)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = runner.Start(context.Background(), &svc, store.LogPath(svc.ID))
//
// # Persistence
//
// The registry is one JSON file, written atomically (temp file plus rename)
// so a crash mid-save never corrupts it. Every mutating Store operation is a
// full load-mutate-save cycle; there is no cross-process locking, so
// concurrent invocations race with last-writer-wins semantics. That is a
// deliberate trade-off for a single-operator tool.
//
// # Runners
//
// A Runner controls sessions it does not supervise: the backend (tmux) owns
// the process group, and lars only issues create/kill/query subcommands
// against it. Session names derive from the immutable service id, so
// renaming a service never strands its session. The tmux backend is
// implemented; screen and direct spawning are declared but not yet built,
// and requesting them fails with ErrRunnerNotAvailable.
package lars
