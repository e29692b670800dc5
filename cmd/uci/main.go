// The UCI command loop, grounded on
// Bubblyworld-lichess-bot/src/clanpj/lisao/mains/uci/main.go's
// scanner-over-stdin/switch-on-first-token shape, generalised from that
// engine's single fixed-depth search into spec.md §6's full time-managed,
// multi-threaded pool. Like the teacher, a `go` command launches the
// search on its own goroutine so `stop` can still be read off stdin while
// it runs.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/logx"
	"github.com/OfekShochat/Smallbrain/internal/search"
	"github.com/OfekShochat/Smallbrain/internal/tablebase"
)

const versionString = "Smallbrain 0.1 " + runtime.GOOS + "-" + runtime.GOARCH

const (
	defaultHashMB  = 64
	defaultThreads = 1
	minHashMB      = 1
	maxHashMB      = 65536
	minThreads     = 1
	maxThreads     = 256
)

func main() {
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to ./cpu.pprof")
	memProfile := flag.Bool("memprofile", false, "write a memory profile to ./mem.pprof")
	logLevel := flag.String("loglevel", "info", "lifecycle log level (debug, info, warn, error, disabled)")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *memProfile {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logx.NewLevelledLogger(level)

	e := newEngine(log, os.Stdout)
	e.loop(os.Stdin)
}

// engine holds everything that survives across a single UCI session: the
// current position, the shared TT, the tablebase prober and the tunable
// options a GUI can set before (or between) searches.
type engine struct {
	log zerolog.Logger

	outMu sync.Mutex
	out   *bufio.Writer

	pos *board.Board
	tt  *search.TT

	prober       tablebase.Prober
	threads      int
	moveOverhead time.Duration

	searchMu     sync.Mutex
	activeSearch *search.Pool
}

func newEngine(log zerolog.Logger, out *os.File) *engine {
	return &engine{
		log:          log,
		out:          bufio.NewWriter(out),
		pos:          board.StartPos(),
		tt:           search.NewTT(defaultHashMB),
		prober:       tablebase.NoopProber{},
		threads:      defaultThreads,
		moveOverhead: 30 * time.Millisecond,
	}
}

// printLine writes one line to the UCI output stream; every caller,
// including the background search goroutine's info/bestmove lines, funnels
// through here so writes never interleave mid-line.
func (e *engine) printLine(format string, args ...interface{}) {
	e.outMu.Lock()
	defer e.outMu.Unlock()
	fmt.Fprintf(e.out, format, args...)
	e.out.Flush()
}

func (e *engine) loop(in *os.File) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch strings.ToLower(fields[0]) {
		case "uci":
			e.handleUCI()
		case "isready":
			e.printLine("readyok\n")
		case "ucinewgame":
			e.tt.Clear()
			e.pos = board.StartPos()
		case "setoption":
			e.handleSetOption(fields)
		case "position":
			e.handlePosition(fields)
		case "go":
			e.handleGo(fields)
		case "stop":
			e.handleStop()
		case "quit":
			e.handleStop()
			return
		default:
			e.printLine("info string unknown command %s\n", fields[0])
		}
	}
}

func (e *engine) handleUCI() {
	e.printLine("id name %s\n", versionString)
	e.printLine("id author Smallbrain contributors\n")
	e.printLine("option name Hash type spin default %d min %d max %d\n", defaultHashMB, minHashMB, maxHashMB)
	e.printLine("option name Threads type spin default %d min %d max %d\n", defaultThreads, minThreads, maxThreads)
	e.printLine("option name MoveOverhead type spin default 30 min 0 max 5000\n")
	e.printLine("option name SyzygyPath type string default <empty>\n")
	e.printLine("uciok\n")
}

func (e *engine) handleSetOption(fields []string) {
	// "setoption name <name> value <value...>"
	if len(fields) < 4 || strings.ToLower(fields[1]) != "name" {
		e.printLine("info string malformed setoption command\n")
		return
	}
	valueIdx := -1
	for i, f := range fields {
		if strings.ToLower(f) == "value" {
			valueIdx = i
			break
		}
	}
	if valueIdx < 0 || valueIdx+1 >= len(fields) {
		e.printLine("info string malformed setoption command\n")
		return
	}
	name := strings.ToLower(strings.Join(fields[2:valueIdx], " "))
	value := strings.Join(fields[valueIdx+1:], " ")

	switch name {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < minHashMB {
			e.printLine("info string invalid Hash value %s\n", value)
			return
		}
		e.tt = search.NewTT(mb)
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil || n < minThreads {
			e.printLine("info string invalid Threads value %s\n", value)
			return
		}
		e.threads = n
	case "moveoverhead":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			e.printLine("info string invalid MoveOverhead value %s\n", value)
			return
		}
		e.moveOverhead = time.Duration(ms) * time.Millisecond
	case "syzygypath":
		e.prober = tablebase.NewFileProber(value)
	default:
		e.printLine("info string unknown option %s\n", name)
	}
}

func (e *engine) handlePosition(fields []string) {
	if len(fields) < 2 {
		return
	}
	rest := fields[1:]
	var movesIdx int

	switch strings.ToLower(rest[0]) {
	case "startpos":
		e.pos = board.StartPos()
		movesIdx = 1
	case "fen":
		end := len(rest)
		for i, f := range rest[1:] {
			if strings.ToLower(f) == "moves" {
				end = i + 1
				break
			}
		}
		if end <= 1 {
			return
		}
		fen := strings.Join(rest[1:end], " ")
		pos, err := board.NewFromFEN(fen)
		if err != nil {
			e.log.Error().Err(err).Str("fen", fen).Msg("invalid fen in position command")
			return
		}
		e.pos = pos
		movesIdx = end
	default:
		return
	}

	if movesIdx >= len(rest) || strings.ToLower(rest[movesIdx]) != "moves" {
		return
	}
	for _, moveStr := range rest[movesIdx+1:] {
		m, ok := findMove(e.pos, strings.ToLower(moveStr))
		if !ok {
			e.log.Warn().Str("move", moveStr).Msg("move not found in current position")
			continue
		}
		e.pos.MakeMove(m)
	}
}

func findMove(pos *board.Board, moveStr string) (board.Move, bool) {
	for _, m := range pos.GenerateLegalMoves() {
		if strings.ToLower(m.String()) == moveStr {
			return m, true
		}
	}
	return board.NoMove, false
}

// handleGo parses the command and starts the pool synchronously (so the
// board clone happens before any later command can mutate e.pos), then
// hands off waiting for the result to a goroutine so the main loop stays
// free to read a "stop" off stdin while the search runs.
func (e *engine) handleGo(fields []string) {
	limits, err := parseGoCommand(e.pos, fields[1:], e.pos.SideToMove() == dragon.White, e.moveOverhead)
	if err != nil {
		e.printLine("info string malformed go command: %v\n", err)
		return
	}

	pool := search.NewPool(e.tt, e.prober)
	pool.SetCallbacks(
		func(info search.Info) { e.printInfo(info) },
		func(cm search.CurrMove) { e.printCurrMove(cm) },
	)

	e.searchMu.Lock()
	e.activeSearch = pool
	e.searchMu.Unlock()

	pool.Start(e.pos, limits, e.threads)

	go func() {
		result := pool.Wait()

		e.searchMu.Lock()
		e.activeSearch = nil
		e.searchMu.Unlock()

		if result.BestMove == board.NoMove {
			e.printLine("bestmove 0000\n")
			return
		}
		e.printLine("bestmove %s\n", result.BestMove.String())
	}()
}

func (e *engine) handleStop() {
	e.searchMu.Lock()
	pool := e.activeSearch
	e.searchMu.Unlock()
	if pool != nil {
		pool.Stop()
	}
}

// parseGoCommand turns a `go` command's tokens into search.Limits, applying
// a simple remaining-time/movestogo time manager: spec.md leaves the exact
// formula to the implementer, so this follows the teacher's
// remaining-time-divided-by-a-constant shape, refined with an increment
// term and a moveOverhead safety margin.
func parseGoCommand(pos *board.Board, tokens []string, whiteToMove bool, moveOverhead time.Duration) (search.Limits, error) {
	var limits search.Limits
	var wtime, btime, winc, binc, movesToGo int
	haveTime := false

	for i := 0; i < len(tokens); i++ {
		tok := strings.ToLower(tokens[i])
		switch tok {
		case "infinite":
			limits.Infinite = true
		case "depth":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("depth missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			limits.Depth = n
		case "nodes":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("nodes missing a value")
			}
			n, err := strconv.ParseUint(tokens[i], 10, 64)
			if err != nil {
				return limits, err
			}
			limits.Nodes = n
		case "movetime":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("movetime missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			limits.Optimum = time.Duration(n) * time.Millisecond
			limits.Maximum = limits.Optimum
		case "wtime":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("wtime missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			wtime = n
			haveTime = true
		case "btime":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("btime missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			btime = n
			haveTime = true
		case "winc":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("winc missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			winc = n
		case "binc":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("binc missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			binc = n
		case "movestogo":
			i++
			if i >= len(tokens) {
				return limits, fmt.Errorf("movestogo missing a value")
			}
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return limits, err
			}
			movesToGo = n
		case "searchmoves":
			for i+1 < len(tokens) {
				i++
				moveStr := strings.ToLower(tokens[i])
				m, ok := findMove(pos, moveStr)
				if !ok {
					return limits, fmt.Errorf("searchmoves: %s is not a legal move", moveStr)
				}
				limits.SearchMoves = append(limits.SearchMoves, m)
			}
		}
	}

	if haveTime && !limits.Infinite && limits.Optimum == 0 {
		ourTime, ourInc := wtime, winc
		if !whiteToMove {
			ourTime, ourInc = btime, binc
		}
		optimum, maximum := computeTimeBudget(ourTime, ourInc, movesToGo, moveOverhead)
		limits.Optimum = optimum
		limits.Maximum = maximum
	}

	return limits, nil
}

// computeTimeBudget splits the remaining clock into a soft "optimum" target
// (what iterative deepening tries to finish within) and a hard "maximum"
// ceiling it must never cross, both shrunk by moveOverhead to leave margin
// for GUI/network latency.
func computeTimeBudget(remainingMs, incMs, movesToGo int, moveOverhead time.Duration) (time.Duration, time.Duration) {
	remaining := time.Duration(remainingMs) * time.Millisecond
	inc := time.Duration(incMs) * time.Millisecond
	remaining -= moveOverhead
	if remaining < 0 {
		remaining = 0
	}

	divisor := 30
	if movesToGo > 0 && movesToGo < divisor {
		divisor = movesToGo
	}

	optimum := remaining/time.Duration(divisor) + inc*3/4
	maximum := remaining / 2
	if optimum > maximum {
		optimum = maximum
	}
	return optimum, maximum
}

func (e *engine) printInfo(info search.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d score ", info.Depth, info.SelDepth)
	if info.IsMate {
		fmt.Fprintf(&sb, "mate %d", info.Score)
	} else {
		fmt.Fprintf(&sb, "cp %d", info.Score)
	}
	fmt.Fprintf(&sb, " tbhits %d nodes %d nps %d hashfull %d time %d pv",
		info.TBHits, info.Nodes, info.NPS, info.Hashfull, info.Time.Milliseconds())
	for _, m := range info.PV {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	sb.WriteByte('\n')
	e.printLine("%s", sb.String())
}

func (e *engine) printCurrMove(cm search.CurrMove) {
	e.printLine("info depth %d currmove %s currmovenumber %d\n", cm.Depth, cm.Move.String(), cm.MoveNumber)
}
