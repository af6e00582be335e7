package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nsbind/build"
	"nsbind/common"
	"nsbind/depm"
	"nsbind/iface"
	"nsbind/mods"
	"nsbind/report"
	"nsbind/resolve"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"
)

// Execute runs the main `nsbind` application and returns its exit code.
func Execute(args []string) int {
	report.InitDisplay()

	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("nsbind", "nsbind binds and resolves the names of packages", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	checkCmd := cli.AddSubcommand("check", "bind a package and report errors", true)
	checkCmd.AddPrimaryArg("package-path", "the path to the package to check", true)

	ifaceCmd := cli.AddSubcommand("interface", "print the interface of a package", true)
	ifaceCmd.AddPrimaryArg("package-path", "the path to the package", true)
	ifaceCmd.AddStringArg("output", "o", "the file to write the interface to", false)

	dumpCmd := cli.AddSubcommand("dump", "print the symbol table of a package", true)
	dumpCmd.AddPrimaryArg("package-path", "the path to the package", true)

	resolveCmd := cli.AddSubcommand("resolve", "resolve a name in a package", true)
	resolveCmd.AddPrimaryArg("package-path", "the path to the package", true)
	resolveCmd.AddStringArg("name", "n", "the dotted name to resolve", true)
	resolveCmd.AddSelectorArg("context", "c", "the visibility context", false, []string{"package", "dependent", "interactive"})

	replCmd := cli.AddSubcommand("repl", "resolve cells read from standard input", true)
	replCmd.AddPrimaryArg("package-path", "the path to the package", true)

	initCmd := cli.AddSubcommand("init", "initialize a package", true)
	initCmd.AddPrimaryArg("package-name", "the name of the package", true)

	cli.AddSubcommand("version", "print the nsbind version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	loglevel := report.LogLevelNames[result.Arguments["loglevel"].(string)]

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		return execCheckCommand(subResult, loglevel)
	case "interface":
		return execInterfaceCommand(subResult, loglevel)
	case "dump":
		return execDumpCommand(subResult, loglevel)
	case "resolve":
		return execResolveCommand(subResult, loglevel)
	case "repl":
		return execReplCommand(subResult, loglevel)
	case "init":
		return execInitCommand(subResult)
	case "version":
		report.PrintInfoMessage("nsbind Version", common.NSBindVersion)
		report.PrintInfoMessage("Language Version", common.LanguageVersion)
	}

	return 0
}

// execCheckCommand executes the check subcommand
func execCheckCommand(result *olive.ArgParseResult, loglevel int) int {
	c, ok := analyze(result, loglevel)
	if c == nil {
		return 1
	}

	report.DisplaySummary(c.Diagnostics(), loglevel)
	return exitCode(ok)
}

// execInterfaceCommand executes the interface subcommand
func execInterfaceCommand(result *olive.ArgParseResult, loglevel int) int {
	c, ok := analyze(result, loglevel)
	if !ok {
		return 1
	}

	pkgIface := c.Root().Interface
	if output, ok := result.Arguments["output"]; ok {
		if err := iface.WriteFile(output.(string), pkgIface); err != nil {
			report.PrintErrorMessage("Interface Error", err)
			return 1
		}

		return 0
	}

	if err := iface.Encode(os.Stdout, pkgIface); err != nil {
		report.PrintErrorMessage("Interface Error", err)
		return 1
	}

	return 0
}

// dumpBinding is the printed form of a single global binding
type dumpBinding struct {
	Kind   string
	Name   string
	Res    string
	Source string
}

// dumpNamespace is the printed form of a namespace of the symbol table
type dumpNamespace struct {
	Path     string
	Origin   string
	Bindings []dumpBinding
}

// execDumpCommand executes the dump subcommand
func execDumpCommand(result *olive.ArgParseResult, loglevel int) int {
	c, _ := analyze(result, loglevel)
	if c == nil || c.Root().Result == nil {
		return 1
	}

	res := c.Root().Result
	var dump []dumpNamespace
	res.Table.Tree.Walk(func(ns depm.NamespaceID, path []string) {
		dn := dumpNamespace{Path: common.JoinPath(path), Origin: "declared"}
		if res.Table.Tree.Origin(ns) == depm.OriginExternal {
			dn.Origin = "external"
		}

		for _, kind := range []depm.NameKind{depm.TermName, depm.TypeName} {
			for _, name := range res.Table.Names(ns, kind) {
				b, _ := res.Table.Get(ns, kind, name)
				dn.Bindings = append(dn.Bindings, dumpBinding{
					Kind:   kind.String(),
					Name:   name,
					Res:    res.Describe(b.Res),
					Source: b.Source.String(),
				})
			}
		}

		dump = append(dump, dn)
	})

	pretty.Println(dump)
	return 0
}

var contextNames = map[string]resolve.VisibilityContext{
	"package":     resolve.SamePackageOrEntry,
	"dependent":   resolve.DependentPackage,
	"interactive": resolve.InteractiveOrNotebookCell,
}

// execResolveCommand executes the resolve subcommand
func execResolveCommand(result *olive.ArgParseResult, loglevel int) int {
	c, _ := analyze(result, loglevel)
	if c == nil || c.Root().Result == nil {
		return 1
	}

	ctx := resolve.SamePackageOrEntry
	if ctxName, ok := result.Arguments["context"]; ok {
		ctx = contextNames[ctxName.(string)]
	}

	res := c.Root().Result
	name := result.Arguments["name"].(string)

	found, diag := res.Resolve(common.SplitPath(name), res.RootScope(), ctx)
	if diag != nil {
		report.DisplayDiagnostics([]*report.Diagnostic{diag}, "", loglevel)
		return 1
	}

	fmt.Printf("%s: %s\n", name, res.Describe(found))
	return 0
}

// execReplCommand executes the repl subcommand
func execReplCommand(result *olive.ArgParseResult, loglevel int) int {
	c, ok := analyze(result, loglevel)
	if !ok {
		return 1
	}

	session, err := build.NewSession(c.Root())
	if err != nil {
		report.PrintErrorMessage("Session Error", err)
		return 1
	}

	failed := false
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		cell, err := session.Eval(sc.Text())
		if err != nil {
			report.PrintErrorMessage("Syntax Error", err)
			failed = true
			continue
		}

		report.DisplayDiagnostics(cell.Diagnostics, "", loglevel)
		if len(cell.Diagnostics) > 0 {
			failed = true
		}
	}

	if err := sc.Err(); err != nil {
		report.PrintErrorMessage("Input Error", err)
		return 1
	}

	return exitCode(!failed)
}

// execInitCommand executes the init subcommand
func execInitCommand(result *olive.ArgParseResult) int {
	workDir, err := os.Getwd()
	if err != nil {
		report.PrintErrorMessage("Path Error", err)
		return 1
	}

	pkgName, _ := result.PrimaryArg()
	if err := mods.InitPackage(pkgName, workDir); err != nil {
		report.PrintErrorMessage("Package Init Error", err)
		return 1
	}

	return 0
}

// -----------------------------------------------------------------------------

// analyze loads and binds the package named by the primary argument of a
// subcommand and displays its diagnostics.  It returns nil if the package
// could not be loaded.
func analyze(result *olive.ArgParseResult, loglevel int) (*build.Compiler, bool) {
	pkgRelPath, _ := result.PrimaryArg()

	pkgPath, err := filepath.Abs(pkgRelPath)
	if err != nil {
		report.PrintErrorMessage("Path Error", err)
		return nil, false
	}

	pkg, err := mods.LoadPackage(pkgPath)
	if err != nil {
		report.PrintErrorMessage("Package Load Error", err)
		return nil, false
	}

	c := build.NewCompiler(pkg)
	ok, err := c.Analyze(context.Background())
	if err != nil {
		report.PrintErrorMessage("Build Error", err)
		return nil, false
	}

	for _, unit := range c.Units() {
		report.DisplayDiagnostics(unit.Result.Diagnostics, unit.Package.Root, loglevel)
	}

	return c, ok
}

func exitCode(ok bool) int {
	if ok {
		return 0
	}

	return 1
}
