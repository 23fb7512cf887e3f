package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lcrostarosa/ploscope-stack-sub005/equity"
	"github.com/lcrostarosa/ploscope-stack-sub005/gamestate"
	"github.com/lcrostarosa/ploscope-stack-sub005/internal/config"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
	"github.com/lcrostarosa/ploscope-stack-sub005/solver"
)

var cli struct {
	Config  string `short:"c" help:"Path to HCL config file" default:"ploscope.hcl"`
	Verbose bool   `short:"v" help:"Verbose logging"`

	Equity      EquityCmd      `cmd:"" help:"Estimate hero equity via Monte Carlo simulation"`
	DoubleBoard DoubleBoardCmd `cmd:"double-board" help:"Double-board bomb-pot outcome rates for known hands"`
	Solve       SolveCmd       `cmd:"" help:"Solve a single spot with CFR and print the averaged strategy"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// app carries shared state into command Run methods.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("ploscope"),
		kong.Description("Pot-limit Omaha equity and spot-solving tooling"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		ctx.Exit(1)
	}

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if err := ctx.Run(&app{cfg: cfg, logger: logger}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

type EquityCmd struct {
	Hand       string `arg:"" help:"Hero's four hole cards, space separated (e.g. 'As Ah Kd Kc')" required:""`
	Board      string `short:"b" help:"Known board cards (e.g. 'Td 7s 8h')"`
	Dead       string `help:"Folded cards removed from the deck"`
	Opponents  int    `short:"o" default:"1" help:"Number of opponents"`
	Range      string `help:"Minimum opponent hole-card category" enum:",premium,strong,medium,weak" default:""`
	Iterations int    `short:"i" help:"Number of Monte Carlo trials (0 uses config default)"`
	Seed       *int64 `help:"Random seed for reproducible results"`
	Workers    int    `help:"Concurrent trial workers (0 uses one per CPU)"`
	Breakdown  bool   `short:"p" help:"Show per-hand-type win/tie/loss breakdown"`
}

func (cmd *EquityCmd) Run(a *app) error {
	iterations := cmd.Iterations
	if iterations == 0 {
		iterations = a.cfg.Simulation.Iterations
	}

	opts := []equity.Option{equity.WithLogger(a.logger)}
	if seed := resolveSeed(cmd.Seed, a.cfg.Simulation.DefaultSeed); seed != 0 {
		opts = append(opts, equity.WithSeed(seed))
	}
	if cmd.Workers > 0 {
		opts = append(opts, equity.WithWorkers(cmd.Workers))
	} else if a.cfg.Simulation.Workers > 0 {
		opts = append(opts, equity.WithWorkers(a.cfg.Simulation.Workers))
	}
	if a.cfg.Simulation.TimeBudget != "" {
		budget, err := time.ParseDuration(a.cfg.Simulation.TimeBudget)
		if err != nil {
			return fmt.Errorf("config time_budget: %w", err)
		}
		opts = append(opts, equity.WithTimeBudget(budget))
	}

	req := equity.Request{
		Hand:        strings.Fields(cmd.Hand),
		Board:       strings.Fields(cmd.Board),
		FoldedCards: strings.Fields(cmd.Dead),
		Opponents:   cmd.Opponents,
		Iterations:  iterations,
	}
	if cmd.Range != "" {
		category, err := parseCategory(cmd.Range)
		if err != nil {
			return err
		}
		req.Ranges = make([]equity.Range, cmd.Opponents)
		for i := range req.Ranges {
			req.Ranges[i] = equity.CategoryRange{Minimum: category}
		}
	}

	result, err := equity.NewSimulator(opts...).SimulateEquity(context.Background(), req)
	if err != nil {
		return err
	}

	displayEquity(cmd.Hand, cmd.Board, result, cmd.Breakdown)
	return nil
}

func displayEquity(hand, board string, result *equity.Result, breakdown bool) {
	if board != "" {
		fmt.Printf("%s\n%s\n\n", headerStyle.Render("board"), board)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("tie"),
		headerStyle.Render("95% CI"))

	lower, upper := result.ConfidenceInterval()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		handStyle.Render(hand),
		winStyle.Render(fmt.Sprintf("%.1f%%", result.Equity*100)),
		tieStyle.Render(fmt.Sprintf("%.1f%%", result.TiePercent*100)),
		percentStyle.Render(fmt.Sprintf("[%.1f%%, %.1f%%]", lower*100, upper*100)))
	w.Flush()

	if breakdown {
		fmt.Printf("\n")
		displayBreakdown(result)
	}

	fmt.Printf("\n%d iterations in %v (%.0f trials/sec)\n",
		result.ActualIterations,
		result.Duration.Truncate(time.Millisecond),
		result.TrialsPerSecond())
	if result.ActualIterations < result.RequestedIterations {
		fmt.Printf("stopped early: %d of %d requested iterations completed\n",
			result.ActualIterations, result.RequestedIterations)
	}
}

func displayBreakdown(result *equity.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		categoryStyle.Render("made hand"),
		headerStyle.Render("hero"),
		headerStyle.Render("wins"),
		headerStyle.Render("ties"))

	total := result.ActualIterations
	for i := int(poker.StraightFlush); i >= int(poker.HighCard); i-- {
		ht := poker.HandType(i)
		b, ok := result.HandBreakdown[ht]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			categoryStyle.Render(ht.String()),
			percentStyle.Render(fmt.Sprintf("%.1f%%", pct(b.Total, total))),
			winStyle.Render(fmt.Sprintf("%.1f%%", pct(b.Wins, total))),
			tieStyle.Render(fmt.Sprintf("%.1f%%", pct(b.Ties, total))))
	}
	w.Flush()
}

type DoubleBoardCmd struct {
	Hands      []string `arg:"" help:"Player hands, four cards each (e.g. 'As Ah Kd Kc')" required:""`
	Top        string   `help:"Known top board cards"`
	Bottom     string   `help:"Known bottom board cards"`
	Iterations int      `short:"i" help:"Number of Monte Carlo trials (0 uses config default)"`
	Seed       *int64   `help:"Random seed for reproducible results"`
}

func (cmd *DoubleBoardCmd) Run(a *app) error {
	iterations := cmd.Iterations
	if iterations == 0 {
		iterations = a.cfg.Simulation.Iterations
	}

	opts := []equity.Option{equity.WithLogger(a.logger)}
	if seed := resolveSeed(cmd.Seed, a.cfg.Simulation.DefaultSeed); seed != 0 {
		opts = append(opts, equity.WithSeed(seed))
	}
	if a.cfg.Simulation.Workers > 0 {
		opts = append(opts, equity.WithWorkers(a.cfg.Simulation.Workers))
	}

	req := equity.DoubleBoardRequest{
		TopBoard:    strings.Fields(cmd.Top),
		BottomBoard: strings.Fields(cmd.Bottom),
		Iterations:  iterations,
	}
	for _, hand := range cmd.Hands {
		req.Hands = append(req.Hands, strings.Fields(hand))
	}

	result, err := equity.NewSimulator(opts...).DoubleBoardStats(context.Background(), req)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		winStyle.Render("scoop"),
		tieStyle.Render("chop"),
		headerStyle.Render("top only"),
		headerStyle.Render("bottom only"))
	for i, hand := range cmd.Hands {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			handStyle.Render(hand),
			winStyle.Render(fmt.Sprintf("%.1f%%", result.ScoopBoth[i]*100)),
			tieStyle.Render(fmt.Sprintf("%.1f%%", result.ChopBoth[i]*100)),
			percentStyle.Render(fmt.Sprintf("%.1f%%", result.SplitTop[i]*100)),
			percentStyle.Render(fmt.Sprintf("%.1f%%", result.SplitBottom[i]*100)))
	}
	w.Flush()

	fmt.Printf("\n%d iterations\n", result.ActualIterations)
	return nil
}

type SolveCmd struct {
	Hand        string  `arg:"" help:"Hero's four hole cards" required:""`
	Board       string  `short:"b" help:"Known board cards (0, 3, 4 or 5 cards)"`
	BottomBoard string  `help:"Second board for double-board pots"`
	Pot         float64 `default:"10" help:"Pot size at the decision point"`
	Stack       float64 `default:"100" help:"Effective stack per player"`
	Players     int     `default:"2" help:"Number of players still in the hand"`
	Range       string  `help:"Minimum villain hole-card category" enum:",premium,strong,medium,weak" default:""`
	Iterations  int     `short:"i" help:"Number of CFR iterations (0 uses config default)"`
	Seed        int64   `help:"Random seed; 0 uses time seed"`
	Limit       int     `help:"Maximum info sets to print (0 prints all)"`
}

func (cmd *SolveCmd) Run(a *app) error {
	iterations := cmd.Iterations
	if iterations == 0 {
		iterations = a.cfg.Solver.Iterations
	}

	street, err := streetForBoard(len(strings.Fields(cmd.Board)))
	if err != nil {
		return err
	}
	if cmd.Players < 2 {
		return fmt.Errorf("solve needs at least 2 players, got %d", cmd.Players)
	}

	gs := &gamestate.GameState{
		Street: street,
		Pot:    cmd.Pot,
		Hero:   0,
	}
	for seat := 0; seat < cmd.Players; seat++ {
		gs.Stacks = append(gs.Stacks, cmd.Stack)
		gs.Active = append(gs.Active, seat)
	}

	gs.HeroHole, err = parseHandTokens(cmd.Hand)
	if err != nil {
		return err
	}
	if cmd.Board != "" {
		gs.Board, err = parseHandTokens(cmd.Board)
		if err != nil {
			return err
		}
	}
	if cmd.BottomBoard != "" {
		gs.BottomBoard, err = parseHandTokens(cmd.BottomBoard)
		if err != nil {
			return err
		}
	}
	if cmd.Range != "" {
		category, err := parseCategory(cmd.Range)
		if err != nil {
			return err
		}
		gs.Ranges = make(map[int]equity.Range)
		for _, seat := range gs.ActiveOpponents() {
			gs.Ranges[seat] = equity.CategoryRange{Minimum: category}
		}
	}

	solverCfg := solver.Config{
		BetSizing:          a.cfg.Solver.BetSizing,
		MaxRaisesPerStreet: a.cfg.Solver.MaxRaisesPerStreet,
		Seed:               cmd.Seed,
		ProgressEvery:      a.cfg.Solver.ProgressEvery,
	}
	s, err := solver.New(solverCfg, solver.WithLogger(a.logger))
	if err != nil {
		return err
	}

	startTime := time.Now()
	result, err := s.SolveSpot(context.Background(), gs, iterations)
	if err != nil {
		return err
	}
	duration := time.Since(startTime)

	displayStrategy(result, cmd.Limit)

	fmt.Printf("\n%s\n", headerStyle.Render("expected value"))
	for seat := 0; seat < cmd.Players; seat++ {
		fmt.Printf("seat %d: %+.2f\n", seat, result.ExpectedValues[seat])
	}

	fmt.Printf("\n%d iterations, %d info sets in %v\n",
		result.ActualIterations, result.InfoSets, duration.Truncate(time.Millisecond))
	return nil
}

func displayStrategy(result *solver.Result, limit int) {
	keys := make([]solver.InfoSetKey, 0, len(result.Strategies))
	for key := range result.Strategies {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n",
		headerStyle.Render("info set"),
		headerStyle.Render("strategy"))
	for _, key := range keys {
		dist := result.Strategies[key]
		actions := make([]solver.Action, 0, len(dist))
		for act := range dist {
			actions = append(actions, act)
		}
		sort.Slice(actions, func(i, j int) bool { return actions[i].String() < actions[j].String() })

		parts := make([]string, 0, len(actions))
		for _, act := range actions {
			parts = append(parts, fmt.Sprintf("%s %.0f%%", act, dist[act]*100))
		}
		fmt.Fprintf(w, "%s\t%s\n",
			categoryStyle.Render(key.String()),
			percentStyle.Render(strings.Join(parts, "  ")))
	}
	w.Flush()
}

func streetForBoard(cards int) (gamestate.Street, error) {
	switch cards {
	case 0:
		return gamestate.Preflop, nil
	case 3:
		return gamestate.Flop, nil
	case 4:
		return gamestate.Turn, nil
	case 5:
		return gamestate.River, nil
	}
	return 0, fmt.Errorf("board must have 0, 3, 4 or 5 cards, got %d", cards)
}

func parseHandTokens(s string) (poker.Hand, error) {
	cards, err := poker.ParseCards(strings.Fields(s))
	if err != nil {
		return 0, err
	}
	return poker.NewHand(cards...), nil
}

func parseCategory(name string) (poker.HoleCardCategory, error) {
	switch name {
	case "premium":
		return poker.CategoryPremium, nil
	case "strong":
		return poker.CategoryStrong, nil
	case "medium":
		return poker.CategoryMedium, nil
	case "weak":
		return poker.CategoryWeak, nil
	}
	return "", fmt.Errorf("unknown category: %s", name)
}

func resolveSeed(flag *int64, configSeed int64) int64 {
	if flag != nil {
		return *flag
	}
	return configSeed
}

func pct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
