// Command dyncall evaluates and explains dynamic method calls.
//
//	dyncall call 'new Derived(1).greet("hi")'
//	dyncall -m model.yaml explain 'Derived.all(1, "a", "b")'
//
// Classes and methods beyond the builtin ones are loaded from a YAML model.
// Runtime options are read from dyncall.toml in the working directory, or
// from the file named by -c.
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/zephyrtronium/dyncall"
	// import for side effects
	_ "github.com/zephyrtronium/dyncall/coreext"
	"github.com/zephyrtronium/dyncall/model"
)

// Version is the version of the dyncall command.
const Version = "0.3.0"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cli := olive.NewCLI("dyncall", "dyncall evaluates and explains dynamic method calls", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "verbose"})
	logLvlArg.SetDefaultValue("error")
	cli.AddStringArg("model", "m", "a YAML file of classes and methods to load", false)
	cli.AddStringArg("config", "c", "a TOML file of runtime options", false)

	callCmd := cli.AddSubcommand("call", "evaluate a call expression", true)
	callCmd.AddPrimaryArg("expr", "the expression to evaluate", true)
	callCmd.AddFlag("trace", "t", "print each dispatch as it happens")

	explainCmd := cli.AddSubcommand("explain", "rank the candidates for the outermost call of an expression", true)
	explainCmd.AddPrimaryArg("expr", "the expression to explain", true)

	classesCmd := cli.AddSubcommand("classes", "list classes and their method names", true)
	classesCmd.AddFlag("methods", "ms", "include method names")

	cli.AddSubcommand("version", "print the dyncall version", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		display{level: levelError}.errorMessage("CLI Usage Error", err)
		return 2
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableColor()
	}
	d := display{level: logLevels[result.Arguments["loglevel"].(string)]}

	subcmdName, subResult, _ := result.Subcommand()
	if subcmdName == "version" {
		InfoStyleBG.Print("dyncall Version")
		InfoColorFG.Println(" " + Version)
		return 0
	}

	rt, err := setup(result, d)
	if err != nil {
		d.errorMessage("Setup Error", err)
		return 1
	}
	switch subcmdName {
	case "call":
		expr, _ := subResult.PrimaryArg()
		return execCall(callThread(rt, subResult.HasFlag("trace")), d, expr)
	case "explain":
		expr, _ := subResult.PrimaryArg()
		return execExplain(rt.NewThread(), d, expr)
	case "classes":
		return execClasses(rt, subResult.HasFlag("methods"))
	}
	return 0
}

// setup creates the runtime from the model and config arguments.
func setup(result *olive.ArgParseResult, d display) (*dyncall.Runtime, error) {
	opts := dyncall.DefaultOptions()
	if path, ok := result.Arguments["config"]; ok {
		o, err := model.LoadOptions(path.(string))
		if err != nil {
			return nil, err
		}
		opts = o
		d.infoMessage("Config", "loaded "+path.(string))
	} else if _, err := os.Stat(model.OptionsFile); err == nil {
		o, err := model.LoadOptions(model.OptionsFile)
		if err != nil {
			return nil, err
		}
		opts = o
		d.infoMessage("Config", "loaded "+model.OptionsFile)
	}
	rt := dyncall.NewRuntime(dyncall.WithOptions(opts), dyncall.WithTracer(d))
	if path, ok := result.Arguments["model"]; ok {
		m, err := model.LoadFile(path.(string))
		if err != nil {
			return nil, err
		}
		methods, err := m.Install(rt)
		if err != nil {
			return nil, err
		}
		d.infoMessage("Model", fmt.Sprintf("loaded %d classes and %d methods from %s", len(m.Classes), len(methods), path.(string)))
	}
	return rt, nil
}

// callThread creates the thread for the call subcommand. The trace flag can
// only turn tracing on, so trace = true in the options file still applies.
func callThread(rt *dyncall.Runtime, trace bool) *dyncall.Thread {
	th := rt.NewThread()
	if trace {
		th.SetTrace(true)
	}
	return th
}

func execCall(th *dyncall.Thread, d display, expr string) int {
	n, err := parse(expr)
	if err != nil {
		d.errorMessage("Syntax Error", err)
		return 1
	}
	v, err := eval(th, n)
	if err != nil {
		d.errorMessage(errorTag(err), err)
		return 1
	}
	d.result(v)
	return 0
}

func execExplain(th *dyncall.Thread, d display, expr string) int {
	n, err := parse(expr)
	if err != nil {
		d.errorMessage("Syntax Error", err)
		return 1
	}
	ex, err := explain(th, n)
	if err != nil {
		d.errorMessage(errorTag(err), err)
		return 1
	}
	if err := printExplanation(os.Stdout, ex); err != nil {
		d.errorMessage("Output Error", err)
		return 1
	}
	return 0
}

func execClasses(rt *dyncall.Runtime, methods bool) int {
	var classes []*dyncall.Class
	rt.Classes(func(c *dyncall.Class) bool {
		classes = append(classes, c)
		return true
	})
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	data := pterm.TableData{{"Class", "Kind", "Super"}}
	if methods {
		data[0] = append(data[0], "Methods")
	}
	for _, c := range classes {
		super := ""
		if s := c.Super(); s != nil {
			super = s.Name
		}
		row := []string{c.Name, classKind(c), super}
		if methods {
			row = append(row, strings.Join(rt.Registry.Names(c), " "))
		}
		data = append(data, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		display{level: levelError}.errorMessage("Output Error", err)
		return 1
	}
	return 0
}

func classKind(c *dyncall.Class) string {
	switch {
	case c.IsInterface():
		return "interface"
	case c.IsPrimitive():
		return "primitive"
	case c.IsArray():
		return "array"
	}
	return "class"
}

// errorTag names the kind of a dispatch failure.
func errorTag(err error) string {
	var (
		null    *dyncall.NullReceiverError
		missing *dyncall.MissingMethodError
		prop    *dyncall.MissingPropertyError
		coerce  *dyncall.TypeCoercionError
		unknown *dyncall.UnknownClassError
		inv     *dyncall.InvocationError
	)
	switch {
	case errors.As(err, &null):
		return "Null Receiver"
	case errors.As(err, &missing):
		return "Missing Method"
	case errors.As(err, &prop):
		return "Missing Property"
	case errors.As(err, &coerce):
		return "Coercion Error"
	case errors.As(err, &unknown):
		return "Unknown Class"
	case errors.As(err, &inv):
		return "Invocation Error"
	}
	return "Dispatch Error"
}
