package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-ad-metrics/internal/aggregator"
	"github.com/pable/go-ad-metrics/internal/catalog"
	"github.com/pable/go-ad-metrics/internal/draft"
	"github.com/pable/go-ad-metrics/internal/model"
	"github.com/pable/go-ad-metrics/internal/report"
	"github.com/pable/go-ad-metrics/internal/storage"
	"github.com/pable/go-ad-metrics/internal/synergy"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive draft replay session",
	Long:  "Open a persistent session against the database and step through drafts. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession is the REPL state: the open match, its cursor and the
// impact table's sort toggle.
type shellSession struct {
	db   *storage.DB
	cat  *catalog.Catalog
	snap *model.Snapshot
	out  io.Writer
	errw io.Writer

	match *loadedMatch
	cur   draft.Cursor
	sort  aggregator.SortState
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cat, snap, err := loadReference(db)
	if err != nil {
		return err
	}
	s := &shellSession{db: db, cat: cat, snap: snap, out: os.Stdout, errw: os.Stderr}

	cGreeting.Println("admetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("admetrics")
		if s.match != nil {
			cMuted.Printf(" [%d %d/%d]", s.match.Match.MatchID, s.cur.Step(), s.cur.Total())
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if s.exec(tokens[0], tokens[1:]) {
			return nil
		}
	}
	return nil
}

// exec runs one shell command and reports whether the session should end.
func (s *shellSession) exec(cmd string, args []string) bool {
	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		s.help()
	case "list":
		s.list()
	case "open":
		if len(args) == 0 {
			cError.Fprintln(s.errw, "usage: open <match-id>")
			return false
		}
		s.open(args[0])
	case "next", "n":
		s.move(func(c draft.Cursor) draft.Cursor { return c.Advance() })
	case "prev", "p":
		s.move(func(c draft.Cursor) draft.Cursor { return c.Retreat() })
	case "start":
		s.move(func(c draft.Cursor) draft.Cursor { return c.JumpToStart() })
	case "end":
		s.move(func(c draft.Cursor) draft.Cursor { return c.JumpToEnd() })
	case "seek":
		if len(args) == 0 {
			cError.Fprintln(s.errw, "usage: seek <step>")
			return false
		}
		k, err := strconv.Atoi(args[0])
		if err != nil {
			cError.Fprintf(s.errw, "invalid step %q\n", args[0])
			return false
		}
		s.move(func(c draft.Cursor) draft.Cursor { return c.Seek(k) })
	case "state":
		s.state()
	case "pool":
		s.pool()
	case "suggest":
		s.suggest(strings.Join(args, " "))
	case "impact":
		s.impact(args)
	case "show":
		s.show()
	case "ability":
		if len(args) == 0 {
			cError.Fprintln(s.errw, "usage: ability <id|name>")
			return false
		}
		id, err := resolveAbility(s.cat, strings.Join(args, " "))
		if err != nil {
			cError.Fprintf(s.errw, "%v\n", err)
			return false
		}
		report.PrintAbilityProfile(s.out, id, s.cat, s.snap, synergy.TopPartners(s.snap, id, cfg.Replay.TopN))
	default:
		cWarn.Fprintf(s.errw, "unknown command %q — type 'help'\n", cmd)
	}
	return false
}

func (s *shellSession) help() {
	fmt.Fprintln(s.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"open <match-id>", "load a match and jump to its final state"},
		{"next / prev", "step one pick forward or back"},
		{"start / end", "jump to the empty or the final draft"},
		{"seek <step>", "jump to a pick number (clamped)"},
		{"state", "show every player's draft at the current step"},
		{"pool", "best undrafted pairs and abilities"},
		{"suggest [name]", "suggestions for a player (default: on the clock)"},
		{"impact [column]", "impact table; repeat a column to flip the order"},
		{"show", "final drafts and the ownership repair log"},
		{"ability <id|name>", "ability profile with top partners"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(s.out, "  ")
		cCmd.Fprintf(s.out, "%-22s", r.cmd)
		fmt.Fprintln(s.out, r.desc)
	}
	fmt.Fprintln(s.out)
}

func (s *shellSession) list() {
	matches, err := s.db.ListMatches()
	if err != nil {
		cError.Fprintf(s.errw, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Fprintln(s.out, "No matches stored yet.")
		return
	}
	cHeader.Fprintf(s.out, "%-12s  %-7s  %5s  %s\n", "MATCH", "WINNER", "PICKS", "IMPORTED")
	cMuted.Fprintf(s.out, "%-12s  %-7s  %5s  %s\n", "────────────", "───────", "─────", "───────────────────")
	for _, m := range matches {
		winner := "Dire"
		if m.RadiantWin {
			winner = "Radiant"
		}
		fmt.Fprintf(s.out, "%-12d  %-7s  %5d  %s\n", m.MatchID, winner, m.PickCount, m.ImportedAt)
	}
}

func (s *shellSession) open(arg string) {
	id, err := parseMatchID(arg)
	if err != nil {
		cError.Fprintf(s.errw, "%v\n", err)
		return
	}
	lm, err := loadMatch(s.db, id, s.cat)
	if err != nil {
		cError.Fprintf(s.errw, "error: %v\n", err)
		return
	}
	if lm == nil {
		cError.Fprintf(s.errw, "no match found with id %d\n", id)
		return
	}
	s.setMatch(lm)
	report.PrintMatchHeader(s.out, lm.Match, hashOf(lm), s.snap)
	s.state()
}

// setMatch replaces the open match and resets the cursor and sort.
func (s *shellSession) setMatch(lm *loadedMatch) {
	s.match = lm
	s.cur = draft.NewCursor(lm.Timeline.Len()).JumpToEnd()
	s.sort = aggregator.SortState{}
}

func (s *shellSession) requireMatch() bool {
	if s.match == nil {
		cWarn.Fprintln(s.errw, "no match open — use 'open <match-id>'")
		return false
	}
	return true
}

func (s *shellSession) move(f func(draft.Cursor) draft.Cursor) {
	if !s.requireMatch() {
		return
	}
	s.cur = f(s.cur)
	st := s.match.Timeline.At(s.cur.Step())
	fmt.Fprintln(s.out, report.StepLine(st, s.cat))
}

func (s *shellSession) state() {
	if !s.requireMatch() {
		return
	}
	st := s.match.Timeline.At(s.cur.Step())
	report.PrintDraftState(s.out, st, s.match.Timeline.Order(), s.cat, s.snap)
}

func (s *shellSession) pool() {
	if !s.requireMatch() {
		return
	}
	st := s.match.Timeline.At(s.cur.Step())
	report.PrintPoolRankings(s.out, st, s.cat, s.snap, cfg.Replay.TopN)
}

func (s *shellSession) suggest(name string) {
	if !s.requireMatch() {
		return
	}
	st := s.match.Timeline.At(s.cur.Step())
	ref, ok := st.OnClockPlayer, !st.Done
	if name != "" {
		ref, ok = findPlayer(st, name)
		if !ok {
			cError.Fprintf(s.errw, "no player named %q\n", name)
			return
		}
	}
	if !ok {
		cMuted.Fprintln(s.out, "Draft complete; name a player to see their suggestions.")
		return
	}
	report.PrintPlayerSuggestions(s.out, st, ref, s.cat, s.snap, cfg.Replay.SynergyEntries, cfg.Replay.TotalEntries)
}

func (s *shellSession) impact(args []string) {
	if !s.requireMatch() {
		return
	}
	if len(args) > 0 {
		col, err := aggregator.ParseColumn(args[0])
		if err != nil {
			cError.Fprintf(s.errw, "%v\n", err)
			return
		}
		s.sort = s.sort.Toggle(col)
	}
	rows := aggregator.Aggregate(s.match.Match, s.snap, s.cat, s.match.Timeline.Order())
	report.PrintImpactTable(s.out, aggregator.SortRows(rows, s.sort), s.sort, s.cat)
}

func (s *shellSession) show() {
	if !s.requireMatch() {
		return
	}
	report.PrintPlayerTable(s.out, s.match.Match, s.cat, s.snap, s.match.Timeline.Order())
	fmt.Fprintln(s.out)
	report.PrintRepairLog(s.out, s.match.Repair, s.match.Match, s.cat)
}
