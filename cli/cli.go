package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/smpl/cli/cmd"
	"github.com/ardnew/smpl/pkg"
)

// CLI is the top-level command-line interface for smpl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Bindings []string         `help:"Bindings file(s) (yaml, json or toml)"    name:"bindings" short:"b" type:"existingfile"`
	Define   []string         `help:"Bind name to the value of expr"          name:"define"   short:"D" placeholder:"NAME=EXPR"`
	NoExt    bool             `help:"Omit the built-in extension functions"   name:"no-ext"`
	Version  kong.VersionFlag `help:"Print version and exit"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Print the loaded bindings"`
	Repl cmd.Repl `cmd:"" help:"Start the interactive shell"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions"`
}

// Run executes the smpl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	paths := cmd.Paths{
		Config: configPath(baseConfig),
		Cache:  pkg.CacheDir(),
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: paths.Config,
		cmd.CacheIdentifier:  paths.Cache,
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong parses, so that errors reported while
	// parsing already use the requested configuration.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, paths.Config+".json"),
		kong.Configuration(resolve(cmd.ConfigIdentifier), paths.Config),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithPaths(ctx, paths)
	ctx = cmd.WithSetup(ctx, cmd.Setup{
		Bindings: cli.Bindings,
		Defines:  cli.Define,
		NoExt:    cli.NoExt,
	})

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run()
}
