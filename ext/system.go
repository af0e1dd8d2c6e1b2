package ext

// This file adapts the host information helpers to bindings. System values
// are read once per process; cwd and env are functions so they observe
// changes made after startup.

import (
	"bufio"
	"context"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/smpl/lang"
)

// System returns host information and path functions.
//
//	target                  {os, arch} using GNU GCC/LLVM naming
//	platform                {os, arch} using Go naming
//	hostname, user, shell   host strings ("" if unknown)
//	cwd()                   working directory
//	env(name?)              environment variable, or all of them
//	path_abs(path)          absolute path
//	path_join(elem...)      joined path
//	path_rel(from, to)      relative path
func System() *lang.Mapping {
	info := systemInfo()

	return newLibrary().
		val("target", info.target.value()).
		val("platform", info.platform.value()).
		val("hostname", lang.String(info.hostname)).
		val("user", lang.String(info.user)).
		val("shell", lang.String(info.shell)).
		def("cwd", cwd).
		def("env", env).
		def("path_abs", pathAbs).
		def("path_join", pathJoin).
		def("path_rel", pathRel).
		m
}

type hostInfo struct {
	target   target
	platform target
	hostname string
	user     string
	shell    string
}

var systemInfo = sync.OnceValue(func() hostInfo {
	u := currentUser()

	return hostInfo{
		target:   getTarget(),
		platform: getPlatform(),
		hostname: getHostname(),
		user:     u,
		shell:    getShell(u),
	}
})

// target contains string identifiers for a target operating system and
// instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func (t target) value() lang.Value {
	return lang.MappingValue(lang.MappingOf(
		lang.Pair{Key: "os", Value: lang.String(t.OS)},
		lang.Pair{Key: "arch", Value: lang.String(t.Arch)},
	))
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	lookup := func(def string, keys ...string) string {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok {
				return v
			}
		}

		return def
	}

	return target{
		OS:   lookup(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: lookup(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}

	return u.Username
}

func getShell(username string) string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	if username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		if e := strings.Split(s.Text(), ":"); len(e) > 6 && e[0] == username {
			return e[6]
		}
	}

	return ""
}

func cwd(context.Context, lang.Args) (lang.Value, error) {
	dir, err := os.Getwd()
	if err != nil {
		return lang.String(absPath(".")), nil
	}

	return lang.String(dir), nil
}

func env(_ context.Context, args lang.Args) (lang.Value, error) {
	if args.Len() == 0 && args.Named.Len() == 0 {
		vars := make(map[string]any)

		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				vars[k] = v
			}
		}

		return lang.FromNative(vars)
	}

	name, err := argString("env", args, 0, "name")
	if err != nil {
		return lang.Null(), err
	}

	if v, ok := os.LookupEnv(name); ok {
		return lang.String(v), nil
	}

	return lang.Null(), nil
}

func absPath(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathAbs(_ context.Context, args lang.Args) (lang.Value, error) {
	path, err := argString("path_abs", args, 0, "path")
	if err != nil {
		return lang.Null(), err
	}

	return lang.String(absPath(path)), nil
}

func pathJoin(_ context.Context, args lang.Args) (lang.Value, error) {
	elem, err := items("path_join", args, 0)
	if err != nil {
		return lang.Null(), err
	}

	return lang.String(filepath.Join(elem...)), nil
}

func pathRel(_ context.Context, args lang.Args) (lang.Value, error) {
	from, err := argString("path_rel", args, 0, "from")
	if err != nil {
		return lang.Null(), err
	}

	to, err := argString("path_rel", args, 1, "to")
	if err != nil {
		return lang.Null(), err
	}

	p, err := filepath.Rel(absPath(from), absPath(to))
	if err != nil {
		return lang.String(filepath.Join(from, to)), nil
	}

	return lang.String(p), nil
}
