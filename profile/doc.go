// Package profile provides optional runtime profiling for smpl.
//
// Profiling is compiled in only with the "pprof" build tag ([Tag]). Without
// it, [Modes] is empty and [Profiler.Start] returns a no-op.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the profiling mode,
// such as cpu.pprof or mem.pprof, and can be inspected with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers, which are
// served only if the host application starts an HTTP server.
package profile
