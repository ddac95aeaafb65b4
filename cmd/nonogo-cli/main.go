// nonogo - a paint-by-number puzzle solver.
// Copyright (C) 2016-2017 the nonogo authors.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

// Command-line client for the nonogo puzzle solver.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/nonogo/nonogo.go/dbprep"
	"github.com/nonogo/nonogo.go/puzzle"
	"github.com/nonogo/nonogo.go/storage"
)

func main() {
	// bring up the cache and archive; solving works without them,
	// so a failure just disables persistence
	if cacheId, dbId, err := storage.Connect(); err != nil {
		log.Printf("Running without persistence: %v", err)
	} else {
		persisting = true
		log.Printf("Connected to cache at %q and database at %q", cacheId, dbId)
		defer storage.Close()
	}

	// catch signals
	shutdownOnSignal()

	// serve
	if err := listener(os.Stdout, os.Stdin); err != nil {
		log.Printf("CLI failure: %v", err)
		shutdown(listenerFailureShutdown)
	}
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// listener reads lines and dispatches them to handlers
func listener(out *os.File, in *os.File) error {
	// if we are on a terminal, we do prompting
	prompt := false
	if stat, _ := out.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
		prompt = true
	}

	input := make([]byte, 4096)
	for {
		if prompt {
			fmt.Fprintf(out, "nonogo> ")
		}
		n, err := in.Read(input)
		switch err {
		case nil:
			r := &request{inline: strings.Trim(string(input[:n]), " \t\r\n")}
			args := strings.Split(r.inline, " ")
			r.command = strings.ToLower(args[0])
			switch r.command {
			case "":
				continue
			case "quit", "exit":
				return nil
			}
			for _, arg := range args[1:] {
				if len(arg) > 0 {
					r.args = append(r.args, strings.ToLower(arg))
				}
			}
			dispatchCommand(out, r)
		case io.EOF:
			// ignore any input before the EOF
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*os.File, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"counts", "", "show the counters of the last solve", countsHandler},
		{"help", "", "show this list", helpHandler},
		{"list", "", "list the built-in puzzles", listHandler},
		{"load", "name", "load a built-in puzzle", loadHandler},
		{"reset", "[schema]", "reload the puzzle and clear cached results; 'schema' also reinstalls the archive", resetHandler},
		{"show", "", "show the current puzzle state", showHandler},
		{"solve", "[guess|probe] [unique] [exhaust]", "solve the current puzzle", solveHandler},
		{"summary", "", "show the current puzzle's clues and palette", summaryHandler},
		{"unique", "", "check whether the current puzzle's solution is unique", uniqueHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(w *os.File, r *request) {
	defer func() {
		if err := recover(); err != nil {
			errorHandler(err, w, r)
		}
	}()

	ci := dispatchTable[r.command]
	if ci == nil {
		usageHandler(fmt.Sprintf("%q is not a known command", r.command), w, r)
	} else {
		ci.handler(w, r)
	}
}

/*

client state

*/

var (
	persisting bool
	current    *puzzle.Puzzle
	currentSum *puzzle.Summary
	lastCounts *puzzle.Counts
)

/*

request handlers

*/

func helpHandler(w *os.File, r *request) {
	fmt.Fprintf(w, "Known commands:\n")
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "  %s %s\n      %s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  quit (or exit)\n      leave the solver\n")
}

func listHandler(w *os.File, r *request) {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, samples[name].Title)
	}
}

func loadHandler(w *os.File, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires a puzzle name", r.command), w, r)
		return
	}
	sum, ok := samples[r.args[0]]
	if !ok {
		usageHandler(fmt.Sprintf("%q is not a built-in puzzle (try 'list')", r.args[0]), w, r)
		return
	}
	p, err := puzzle.New(sum)
	if err != nil {
		fmt.Fprintf(w, "Couldn't load %q: %v\n", r.args[0], err)
		return
	}
	current, currentSum, lastCounts = p, sum, nil
	fmt.Fprintf(w, "Loaded %q: %dx%d, %d colors.\n",
		sum.Title, p.NRows(), p.NCols(), p.NColors())
	if persisting {
		if rec := storedResult(sum); rec != nil {
			fmt.Fprintf(w, "Previously solved (%s at %s).\n", rec.Status, rec.Saved)
		}
	}
}

// runsString renders one line's clue the way puzzle books print
// them: run lengths, with the color character appended when the
// puzzle has more than one foreground color.
func runsString(sum *puzzle.Summary, runs []puzzle.Run) string {
	if len(runs) == 0 {
		return "-"
	}
	parts := make([]string, len(runs))
	for i, run := range runs {
		if len(sum.Colors) > 2 {
			parts[i] = fmt.Sprintf("%d%s", run.Length, sum.Colors[run.Color].Char)
		} else {
			parts[i] = fmt.Sprintf("%d", run.Length)
		}
	}
	return strings.Join(parts, " ")
}

func summaryHandler(w *os.File, r *request) {
	if currentSum == nil {
		usageHandler("no puzzle loaded (try 'load')", w, r)
		return
	}
	sum := currentSum
	fmt.Fprintf(w, "%s: %d rows, %d columns.\n", sum.Title, len(sum.Rows), len(sum.Cols))
	fmt.Fprintf(w, "Palette:")
	for _, cd := range sum.Colors {
		fmt.Fprintf(w, " %s=%s", cd.Char, cd.Name)
	}
	fmt.Fprintf(w, "\nRows:\n")
	for i, runs := range sum.Rows {
		fmt.Fprintf(w, "  %2d: %s\n", i, runsString(sum, runs))
	}
	fmt.Fprintf(w, "Columns:\n")
	for j, runs := range sum.Cols {
		fmt.Fprintf(w, "  %2d: %s\n", j, runsString(sum, runs))
	}
	if len(sum.Givens) > 0 {
		fmt.Fprintf(w, "%d preset cells.\n", len(sum.Givens))
	}
	if persisting {
		if digest, err := storage.Digest(sum); err == nil {
			fmt.Fprintf(w, "Digest %s.\n", digest)
		}
	}
}

func showHandler(w *os.File, r *request) {
	if current == nil {
		usageHandler("no puzzle loaded (try 'load')", w, r)
		return
	}
	fmt.Fprintf(w, "%s%d of %d cells solved.\n",
		current, current.NSolved(), current.NCells())
}

func solveHandler(w *os.File, r *request) {
	if current == nil {
		usageHandler("no puzzle loaded (try 'load')", w, r)
		return
	}
	opts := puzzle.DefaultOptions()
	for _, arg := range r.args {
		switch {
		case arg == "guess":
			opts.Probe = false
		case arg == "probe":
			opts.Probe = true
		case arg == "unique":
			opts.CheckUnique = true
		case arg == "exhaust":
			opts.Exhaust = true
		case strings.HasPrefix(arg, "rating="):
			opts.Rating = strings.TrimPrefix(arg, "rating=")
		case strings.HasPrefix(arg, "color="):
			opts.Color = strings.TrimPrefix(arg, "color=")
		default:
			usageHandler(fmt.Sprintf("%q is not a solve option", arg), w, r)
			return
		}
	}

	res, err := puzzle.Solve(current, opts)
	if err != nil {
		fmt.Fprintf(w, "Solve failed: %v\n", err)
		return
	}
	counts := res.Counts
	lastCounts = &counts

	switch res.Status {
	case puzzle.StatusSolved:
		fmt.Fprintf(w, "%s", current)
		if res.UniqueKnown {
			if res.Unique {
				fmt.Fprintf(w, "The solution is unique.\n")
			} else {
				fmt.Fprintf(w, "The solution is not unique.\n")
			}
		}
	case puzzle.StatusUnsat:
		fmt.Fprintf(w, "The puzzle has no solution.\n")
	case puzzle.StatusStuck:
		fmt.Fprintf(w, "Logic alone got this far:\n%s", current)
	}

	if persisting {
		saveResult(currentSum, res, current.ValuesString())
	}
}

// uniqueHandler checks uniqueness on a fresh copy of the current
// puzzle, so the state on screen is left alone.
func uniqueHandler(w *os.File, r *request) {
	if currentSum == nil {
		usageHandler("no puzzle loaded (try 'load')", w, r)
		return
	}
	p, err := puzzle.New(currentSum)
	if err != nil {
		fmt.Fprintf(w, "Couldn't rebuild puzzle: %v\n", err)
		return
	}
	opts := puzzle.DefaultOptions()
	opts.CheckUnique = true
	res, err := puzzle.Solve(p, opts)
	if err != nil {
		fmt.Fprintf(w, "Solve failed: %v\n", err)
		return
	}
	counts := res.Counts
	lastCounts = &counts

	switch res.Status {
	case puzzle.StatusSolved:
		if res.Unique {
			fmt.Fprintf(w, "The solution is unique.\n")
		} else {
			fmt.Fprintf(w, "The solution is not unique; a second one is:\n%s", p)
		}
	case puzzle.StatusUnsat:
		fmt.Fprintf(w, "The puzzle has no solution.\n")
	case puzzle.StatusStuck:
		fmt.Fprintf(w, "The solver got stuck; uniqueness unknown.\n")
	}
	if persisting && res.Status != puzzle.StatusStuck {
		saveResult(currentSum, res, p.ValuesString())
	}
}

func countsHandler(w *os.File, r *request) {
	if lastCounts == nil {
		usageHandler("nothing solved yet (try 'solve')", w, r)
		return
	}
	fmt.Fprintf(w, "lines %d, guesses %d, probes %d, merges %d, backtracks %d\n",
		lastCounts.Lines, lastCounts.Guesses, lastCounts.Probes,
		lastCounts.Merges, lastCounts.Backtracks)
	if lastCounts.ExhaustRuns > 0 {
		fmt.Fprintf(w, "exhaustive passes %d, eliminations %d\n",
			lastCounts.ExhaustRuns, lastCounts.ExhaustHits)
	}
}

func resetHandler(w *os.File, r *request) {
	// "reset schema" wipes and reinstalls the archive as well,
	// which loses every stored puzzle and result
	if len(r.args) > 0 {
		if r.args[0] != "schema" {
			usageHandler(fmt.Sprintf("%q is not a reset option", r.args[0]), w, r)
			return
		}
		if !persisting {
			usageHandler("no archive connected; nothing to reset", w, r)
			return
		}
		if err := storage.ClearCache(); err != nil {
			log.Printf("Couldn't clear result cache: %v", err)
		}
		if err := dbprep.RemoveData(); err != nil {
			fmt.Fprintf(w, "Couldn't remove the archive schema: %v\n", err)
			return
		}
		if err := dbprep.EnsureData(); err != nil {
			fmt.Fprintf(w, "Couldn't reinstall the archive schema: %v\n", err)
			return
		}
		fmt.Fprintf(w, "Archive schema reinstalled.\n")
	}

	if currentSum == nil {
		if len(r.args) == 0 {
			usageHandler("no puzzle loaded (try 'load')", w, r)
		}
		return
	}
	p, err := puzzle.New(currentSum)
	if err != nil {
		fmt.Fprintf(w, "Couldn't reload puzzle: %v\n", err)
		return
	}
	current, lastCounts = p, nil
	if persisting && len(r.args) == 0 {
		if err := storage.ClearCache(); err != nil {
			log.Printf("Couldn't clear result cache: %v", err)
		}
	}
	fmt.Fprintf(w, "Puzzle reset.\n")
}

func usageHandler(msg string, w *os.File, r *request) {
	fmt.Fprintf(w, "Error: %s.\nType 'help' for a command list.\n", msg)
}

func errorHandler(err interface{}, w *os.File, r *request) {
	fmt.Fprintf(w, "Panic executing %q: %v\n", r.inline, err)
}

/*

persistence helpers

*/

// storedResult looks up the archived result of a prior solve of the
// same puzzle.
func storedResult(sum *puzzle.Summary) *storage.SolveRecord {
	digest, err := storage.Digest(sum)
	if err != nil {
		log.Printf("Couldn't digest puzzle: %v", err)
		return nil
	}
	rec, err := storage.LookupResult(digest)
	if err != nil {
		log.Printf("Couldn't look up result: %v", err)
		return nil
	}
	return rec
}

// saveResult archives a solve outcome under the puzzle's digest.
func saveResult(sum *puzzle.Summary, res puzzle.Result, grid string) {
	digest, err := storage.Digest(sum)
	if err != nil {
		log.Printf("Couldn't digest puzzle: %v", err)
		return
	}
	if err := storage.SavePuzzle(digest, sum); err != nil {
		log.Printf("Couldn't archive puzzle: %v", err)
		return
	}
	if err := storage.SaveResult(storage.NewSolveRecord(digest, res, grid)); err != nil {
		log.Printf("Couldn't archive result: %v", err)
	}
}

/*

built-in puzzles

*/

// summaryFromGrid derives a summary from a drawn grid: each string
// is one row, each character one cell, mapped through the palette's
// Char fields.  Deriving the clues from the picture keeps the
// samples consistent by construction.
func summaryFromGrid(id, title string, colors []puzzle.ColorDef, rows []string) *puzzle.Summary {
	charColor := make(map[byte]int, len(colors))
	for i, cd := range colors {
		charColor[cd.Char[0]] = i
	}
	sum := &puzzle.Summary{ID: id, Title: title, Colors: colors}
	grid := make([][]int, len(rows))
	for i, row := range rows {
		grid[i] = make([]int, len(row))
		for j := 0; j < len(row); j++ {
			grid[i][j] = charColor[row[j]]
		}
	}
	lineRuns := func(line []int) []puzzle.Run {
		runs := []puzzle.Run{}
		for j := 0; j < len(line); {
			c := line[j]
			length := 0
			for j+length < len(line) && line[j+length] == c {
				length++
			}
			if c != 0 {
				runs = append(runs, puzzle.Run{Length: length, Color: c})
			}
			j += length
		}
		return runs
	}
	for i := range grid {
		sum.Rows = append(sum.Rows, lineRuns(grid[i]))
	}
	for j := 0; j < len(grid[0]); j++ {
		col := make([]int, len(grid))
		for i := range grid {
			col[i] = grid[i][j]
		}
		sum.Cols = append(sum.Cols, lineRuns(col))
	}
	return sum
}

var blackWhite = []puzzle.ColorDef{
	{Name: "white", Char: "."},
	{Name: "black", Char: "X"},
}

var samples = map[string]*puzzle.Summary{
	"plus": summaryFromGrid("plus", "Plus sign", blackWhite, []string{
		"..X..",
		".XXX.",
		"XXXXX",
		".XXX.",
		"..X..",
	}),
	"heart": summaryFromGrid("heart", "Heart", blackWhite, []string{
		".XX....XX.",
		"XXXX..XXXX",
		"XXXXXXXXXX",
		"XXXXXXXXXX",
		"XXXXXXXXXX",
		".XXXXXXXX.",
		"..XXXXXX..",
		"...XXXX...",
		"....XX....",
		"..........",
	}),
	"flag": summaryFromGrid("flag", "Tricolor flag", []puzzle.ColorDef{
		{Name: "white", Char: "."},
		{Name: "red", Char: "r", RGB: "ff0000"},
		{Name: "green", Char: "g", RGB: "00aa00"},
	}, []string{
		"rrrrrr",
		"rrrrrr",
		"......",
		"gggggg",
		"gggggg",
	}),
}

/*

coordinate shutdown

*/

type shutdownCause int

const (
	unknownShutdown = iota
	caughtSignalShutdown
	listenerFailureShutdown
)

// shutdown: process exit with logging.
func shutdown(reason shutdownCause) {
	storage.Close()
	switch reason {
	case caughtSignalShutdown:
		log.Fatal("Exiting: caught signal.")
	case listenerFailureShutdown:
		log.Fatal("Exiting: listener failed.")
	default:
		log.Fatal("Exiting: normal shutdown.")
	}
}

// shutdownOnSignal: catch signals and exit.
func shutdownOnSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		s := <-c
		log.Printf("Received OS-level signal: %v", s)
		shutdown(caughtSignalShutdown)
	}()
}
