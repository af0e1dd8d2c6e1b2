package ext

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/smpl/lang"
)

// Files returns filesystem functions.
//
//	is_file(path)                         whether path is a regular file
//	is_dir(path)                          whether path is a directory
//	is_symlink(path)                      whether path is a symbolic link
//	file_exists(path)                     whether path exists
//	file_get_contents(path)               file content as a string
//	file_put_contents(path, data, append?) bytes written
//	unlink(path)                          whether a file was removed
//	path_prefix(list, item...)            PATH-like list with items prepended
//	path_prefix_if(list, predicate, item...) same, keeping items that pass
func Files() *lang.Mapping {
	return newLibrary().
		def("is_file", stat("is_file", os.Stat, fs.FileMode.IsRegular)).
		def("is_dir", stat("is_dir", os.Stat, fs.FileMode.IsDir)).
		def("is_symlink", stat("is_symlink", os.Lstat, func(m fs.FileMode) bool {
			return m&fs.ModeSymlink != 0
		})).
		def("file_exists", stat("file_exists", os.Stat, func(fs.FileMode) bool {
			return true
		})).
		def("file_get_contents", fileGetContents).
		def("file_put_contents", filePutContents).
		def("unlink", unlink).
		def("path_prefix", pathPrefix).
		def("path_prefix_if", pathPrefixIf).
		m
}

// stat returns a predicate over the mode of the file at its path argument.
// A path that cannot be examined satisfies no predicate.
func stat(
	fn string,
	info func(string) (fs.FileInfo, error),
	pred func(fs.FileMode) bool,
) lang.Func {
	return func(_ context.Context, args lang.Args) (lang.Value, error) {
		path, err := argString(fn, args, 0, "path")
		if err != nil {
			return lang.Null(), err
		}

		fi, err := info(path)
		if err != nil {
			return lang.Bool(false), nil
		}

		return lang.Bool(pred(fi.Mode())), nil
	}
}

func fileGetContents(_ context.Context, args lang.Args) (lang.Value, error) {
	path, err := argString("file_get_contents", args, 0, "path")
	if err != nil {
		return lang.Null(), err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return lang.Null(), lang.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	return lang.String(string(data)), nil
}

func filePutContents(_ context.Context, args lang.Args) (lang.Value, error) {
	const fn = "file_put_contents"

	path, err := argString(fn, args, 0, "path")
	if err != nil {
		return lang.Null(), err
	}

	data, _ := args.Lookup(1, "data")
	appendMode, _ := args.Lookup(2, "append")

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode.Truthy() {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return lang.Null(), lang.ErrArgument.Detail(fn).Wrap(err).
			With(slog.String("path", path))
	}
	defer f.Close()

	n, err := f.WriteString(content(data))
	if err != nil {
		return lang.Null(), lang.ErrArgument.Detail(fn).Wrap(err).
			With(slog.String("path", path))
	}

	return lang.Int(int64(n)), nil
}

// content returns the text written for data. The elements of a sequence are
// written one after another.
func content(data lang.Value) string {
	s, ok := data.AsSequence()
	if !ok {
		return data.String()
	}

	var sb strings.Builder
	for _, e := range s {
		sb.WriteString(e.String())
	}

	return sb.String()
}

func unlink(_ context.Context, args lang.Args) (lang.Value, error) {
	path, err := argString("unlink", args, 0, "path")
	if err != nil {
		return lang.Null(), err
	}

	err = os.Remove(path)

	switch {
	case err == nil:
		return lang.Bool(true), nil
	case errors.Is(err, fs.ErrNotExist):
		return lang.Bool(false), nil
	default:
		return lang.Null(), lang.ErrArgument.Detail("unlink").Wrap(err).
			With(slog.String("path", path))
	}
}

// items returns the string arguments from index i onward.
func items(fn string, args lang.Args, i int) ([]string, error) {
	out := make([]string, 0, max(args.Len()-i, 0))

	for j := i; j < args.Len(); j++ {
		s, ok := args.At(j).AsString()
		if !ok {
			return nil, argError(fn, "item", "string", args.At(j))
		}

		out = append(out, s)
	}

	return out, nil
}

func pathPrefix(_ context.Context, args lang.Args) (lang.Value, error) {
	const fn = "path_prefix"

	list, err := argString(fn, args, 0, "list")
	if err != nil {
		return lang.Null(), err
	}

	prefix, err := items(fn, args, 1)
	if err != nil {
		return lang.Null(), err
	}

	return lang.String(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()), nil
}

func pathPrefixIf(ctx context.Context, args lang.Args) (lang.Value, error) {
	const fn = "path_prefix_if"

	list, err := argString(fn, args, 0, "list")
	if err != nil {
		return lang.Null(), err
	}

	pred, err := argCallable(fn, args, 1, "predicate")
	if err != nil {
		return lang.Null(), err
	}

	prefix, err := items(fn, args, 2)
	if err != nil {
		return lang.Null(), err
	}

	// The first predicate failure is reported after mung returns.
	var failed error

	filter := func(item string) bool {
		if failed != nil {
			return false
		}

		v, err := pred.Call(ctx, lang.ArgsOf(lang.String(item)))
		if err != nil {
			failed = err

			return false
		}

		return v.Truthy()
	}

	out := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(filter),
	).String()

	if failed != nil {
		return lang.Null(), failed
	}

	return lang.String(out), nil
}
