package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/zephyrtronium/dyncall"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	TraceColorFG   = pterm.FgCyan
	TraceStyleBG   = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
	InfoColorFG    = pterm.FgLightBlue
	InfoStyleBG    = pterm.NewStyle(pterm.BgLightBlue, pterm.FgBlack)
)

// Log levels, from quietest.
const (
	levelSilent = iota
	levelError
	levelVerbose
)

var logLevels = map[string]int{
	"silent":  levelSilent,
	"error":   levelError,
	"verbose": levelVerbose,
}

// display prints messages at or below a log level.
type display struct {
	level int
}

// errorMessage prints a failure.
func (d display) errorMessage(tag string, err error) {
	if d.level < levelError {
		return
	}
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// infoMessage prints an informational message.
func (d display) infoMessage(tag, msg string) {
	if d.level < levelVerbose {
		return
	}
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// result prints the result of a call. Results print at every level.
func (d display) result(v interface{}) {
	SuccessStyleBG.Print("Result")
	SuccessColorFG.Println(" " + dyncall.Render(v, 0) + " (" + className(v) + ")")
}

// Trace implements dyncall.Tracer.
func (d display) Trace(ev dyncall.Event) {
	if d.level < levelVerbose {
		return
	}
	TraceStyleBG.Print("Dispatch")
	TraceColorFG.Println(" " + ev.String())
}

func className(v interface{}) string {
	if v == nil {
		return "null"
	}
	return dyncall.ClassOf(v).String()
}

// explanationTable lays out an explanation as rows, header first.
func explanationTable(ex *explanation) pterm.TableData {
	data := pterm.TableData{{"", "Method", "Origin", "Applicable", "Distance"}}
	for _, c := range ex.Candidates {
		mark, dist := "", "-"
		if c.Selected {
			mark = "*"
		}
		if c.Applicable {
			dist = formatDistance(c.Distance)
		}
		data = append(data, []string{mark, c.Method.String(), c.Method.Origin.String(), strconv.FormatBool(c.Applicable), dist})
	}
	return data
}

// formatDistance shows a distance split into its varargs and ordinary parts.
func formatDistance(d int64) string {
	const shift = 44
	v, o := d>>shift, d&(1<<shift-1)
	if v == 0 {
		return strconv.FormatInt(o, 10)
	}
	return fmt.Sprintf("%d+%d<<%d", o, v, shift)
}

// printExplanation prints an explanation to w.
func printExplanation(w io.Writer, ex *explanation) error {
	args := ""
	for i, a := range ex.Args {
		if i > 0 {
			args += ", "
		}
		args += className(a)
	}
	fmt.Fprintf(w, "%v.%s(%s)\n", ex.Class, ex.Name, args)
	if len(ex.Candidates) == 0 {
		fmt.Fprintln(w, "no candidates")
		return nil
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(explanationTable(ex)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
